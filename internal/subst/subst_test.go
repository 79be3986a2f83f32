package subst

import (
	"testing"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/typeterm"
)

func TestApplyEmptyIsIdentity(t *testing.T) {
	env := typeterm.NewEnv()
	i := env.NewConstr(path.Parse("int"), nil)
	if got := Empty().Apply(env, i); !typeterm.Equal(got, i) {
		t.Fatalf("Apply(Empty(), t) changed t")
	}
}

func TestSingletonAndApply(t *testing.T) {
	env := typeterm.NewEnv()
	v := env.FreshVar()
	i := env.NewConstr(path.Parse("int"), nil)
	s := Singleton(v.Var(), i)

	if got := s.Apply(env, v); !typeterm.Equal(got, i) {
		t.Fatalf("Apply substituted variable incorrectly")
	}
}

func TestExtendResolvesChainedBindings(t *testing.T) {
	env := typeterm.NewEnv()
	a := env.FreshVar()
	b := env.FreshVar()
	i := env.NewConstr(path.Parse("int"), nil)

	s := Empty().Extend(env, b.Var(), i)
	s = s.Extend(env, a.Var(), b)

	if got := s.Apply(env, a); !typeterm.Equal(got, i) {
		t.Fatalf("chained substitution did not fully resolve a -> b -> int")
	}
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	env := typeterm.NewEnv()
	a := env.FreshVar()
	b := env.FreshVar()
	i := env.NewConstr(path.Parse("int"), nil)

	s := Singleton(a.Var(), b)
	r := Singleton(b.Var(), i)
	composed := s.Compose(env, r)

	direct := r.Apply(env, s.Apply(env, a))
	if got := composed.Apply(env, a); !typeterm.Equal(got, direct) {
		t.Fatalf("Compose did not match sequential application")
	}
}

func TestCompareFewerBindingsIsSmaller(t *testing.T) {
	env := typeterm.NewEnv()
	a := env.FreshVar()
	b := env.FreshVar()
	i := env.NewConstr(path.Parse("int"), nil)

	one := Singleton(a.Var(), i)
	two := Singleton(a.Var(), i).Extend(env, b.Var(), i)

	if Compare(one, two) >= 0 {
		t.Fatalf("Compare(one binding, two bindings) = %d, want negative", Compare(one, two))
	}
}

func TestMin(t *testing.T) {
	env := typeterm.NewEnv()
	a := env.FreshVar()
	i := env.NewConstr(path.Parse("int"), nil)

	empty := Empty()
	one := Singleton(a.Var(), i)
	if got := Min(empty, one); Compare(got, empty) != 0 {
		t.Fatalf("Min did not pick the empty substitution")
	}
}
