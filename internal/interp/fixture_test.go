package interp_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arm-asl/aslcore/internal/backend/native"
	"github.com/arm-asl/aslcore/internal/fixtures"
	"github.com/arm-asl/aslcore/internal/instr"
	"github.com/arm-asl/aslcore/internal/interp"
)

// fixtureWant pins each internal/fixtures scenario to the one textual
// result (or fatal-error message) it is documented to produce (§8), so a
// regression in BuildGlobalEnv/RunMain or the primitive dispatch path
// actually fails this suite instead of silently recording whatever came
// out.
var fixtureWant = map[string]string{
	"literal-arithmetic": "3",
	"global-mutation":    "7",
	"try-catch":          "42",
	"bit-slice-write":    "15",
	"for-loop-sum":       "10",
	"failing-assert":     "fatal error: AssertionFailed: assertion failed",
}

// TestFixtures drives every internal/fixtures scenario through
// BuildGlobalEnv + RunMain against the native backend and checks the
// textual result (or the fatal error's message, for the scenario that is
// supposed to fault) against fixtureWant, grounded on CWBudde-go-dws's
// fixture_test.go.
func TestFixtures(t *testing.T) {
	for _, name := range fixtures.Names() {
		name := name
		t.Run(name, func(t *testing.T) {
			fx, ok := fixtures.Get(name)
			if !ok {
				t.Fatalf("fixture %q vanished from the registry", name)
			}
			want, ok := fixtureWant[name]
			if !ok {
				t.Fatalf("fixture %q has no entry in fixtureWant", name)
			}

			b := native.New()
			it := interp.New(b, instr.NoopSink{}, 1)
			var out strings.Builder
			it.Out = &out

			global, err := interp.BuildGlobalEnv(it, fx.Program, fx.Static, nil)
			if err != nil {
				got := fmt.Sprintf("build error: %s", err)
				if got != want {
					t.Errorf("result = %q, want %q", got, want)
				}
				return
			}

			v, err := interp.RunMain(it, global)
			if err != nil {
				got := fmt.Sprintf("fatal error: %s", err)
				if got != want {
					t.Errorf("result = %q, want %q", got, want)
				}
				return
			}

			result := b.DebugValue(v)
			if out.Len() > 0 {
				result = out.String() + result
			}
			if result != want {
				t.Errorf("result = %q, want %q", result, want)
			}
		})
	}
}

// TestFixturesRegistry pins the registry's exact contents: a new fixture
// added to internal/fixtures without updating this list is a sign the
// end-to-end coverage above silently grew to include it (which is fine)
// or that a name was typo'd (which isn't).
func TestFixturesRegistry(t *testing.T) {
	want := []string{
		"bit-slice-write",
		"failing-assert",
		"for-loop-sum",
		"global-mutation",
		"literal-arithmetic",
		"try-catch",
	}
	got := fixtures.Names()
	if len(got) != len(want) {
		t.Fatalf("fixtures.Names() = %v, want %v", got, want)
	}
	for i, n := range want {
		if got[i] != n {
			t.Errorf("fixtures.Names()[%d] = %q, want %q", i, got[i], n)
		}
	}
}
