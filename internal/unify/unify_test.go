package unify

import (
	"testing"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/subst"
	"github.com/typodex/typodex/internal/typeterm"
)

func c(env *typeterm.Env, name string) typeterm.Ty {
	return env.NewConstr(path.Parse(name), nil)
}

// TestScenarios exercises spec.md's end-to-end unification table.
func TestScenarios(t *testing.T) {
	t.Run("identical constructors unify with the empty substitution", func(t *testing.T) {
		env := typeterm.NewEnv()
		i := c(env, "int")
		s, ok := Unify(env, i, i)
		if !ok {
			t.Fatalf("Unify(int, int) failed")
		}
		if s.Len() != 0 {
			t.Fatalf("Unify(int, int) = %v bindings, want 0", s.Len())
		}
	})

	t.Run("int -> int unifies with 'a -> 'a binding a to int", func(t *testing.T) {
		env := typeterm.NewEnv()
		i := c(env, "int")
		lhs := env.NewArrow(i, i)
		v := env.FreshVar()
		rhs := env.NewArrow(v, v)

		s, ok := Unify(env, lhs, rhs)
		if !ok {
			t.Fatalf("Unify failed, want success")
		}
		bound, ok := s.Lookup(v.Var())
		if !ok || !typeterm.Equal(bound, i) {
			t.Fatalf("expected 'a bound to int, got %v, %v", bound, ok)
		}
	})

	t.Run("tupled argument unifies with a curried arrow of the same tail", func(t *testing.T) {
		env := typeterm.NewEnv()
		i := c(env, "int")
		va := env.FreshVar()
		vb := env.FreshVar()
		vc := env.FreshVar()

		lhs := env.NewArrow(env.NewTuple([]typeterm.Ty{va, vb}), vc)
		rhs := env.NewArrowN([]typeterm.Ty{i, i}, i)

		if !Unifiable(env, lhs, rhs) {
			t.Fatalf("expected 'a * 'b -> 'c to unify with int -> int -> int")
		}
	})

	t.Run("a constructor never unifies with an arrow", func(t *testing.T) {
		env := typeterm.NewEnv()
		if Unifiable(env, c(env, "int"), env.NewArrow(c(env, "int"), c(env, "int"))) {
			t.Fatalf("expected int not to unify with int -> int")
		}
	})

	t.Run("different constructor names never unify even with matching arity", func(t *testing.T) {
		env := typeterm.NewEnv()
		v := env.FreshVar()
		i := c(env, "int")
		list := env.NewConstr(path.Parse("list"), []typeterm.Ty{v})
		array := env.NewConstr(path.Parse("array"), []typeterm.Ty{v})

		lhs := env.NewTuple([]typeterm.Ty{list, i})
		rhs := env.NewTuple([]typeterm.Ty{array, i})
		if Unifiable(env, lhs, rhs) {
			t.Fatalf("expected 'a list * int not to unify with 'a array * int")
		}
	})
}

func TestUnifySameVariableIsTrivial(t *testing.T) {
	env := typeterm.NewEnv()
	v := env.FreshVar()
	s, ok := Unify(env, v, v)
	if !ok {
		t.Fatalf("Unify(v, v) failed")
	}
	if s.Len() != 0 {
		t.Fatalf("Unify(v, v) produced %d bindings, want 0", s.Len())
	}
}

func TestOccursCheckPreventsCyclicBinding(t *testing.T) {
	env := typeterm.NewEnv()
	v := env.FreshVar()
	list := env.NewConstr(path.Parse("list"), []typeterm.Ty{v})
	if Unifiable(env, v, list) {
		t.Fatalf("occurs check should have rejected binding 'a to 'a list")
	}
}

func TestUnifyPicksSmallestUnifier(t *testing.T) {
	env := typeterm.NewEnv()
	va := env.FreshVar()
	vb := env.FreshVar()
	vc := env.FreshVar()
	vx := env.FreshVar()
	vy := env.FreshVar()
	vz := env.FreshVar()

	lhs := env.NewArrowN([]typeterm.Ty{va, vb}, vc)
	rhs := env.NewArrow(vx, env.NewTuple([]typeterm.Ty{vy, vz}))

	best, ok := Unify(env, lhs, rhs)
	if !ok {
		t.Fatalf("Unify failed, want success")
	}
	for s := range Unifiers(env, lhs, rhs) {
		if subst.Compare(best, s) > 0 {
			t.Fatalf("Unify did not return the minimal unifier: found a smaller one")
		}
	}
}

func TestEmptyMultisetOnlyUnifiesWithEmpty(t *testing.T) {
	env := typeterm.NewEnv()
	i := c(env, "int")
	nonEmpty := env.NewTuple([]typeterm.Ty{i, i})
	empty := env.NewTuple(nil)
	if Unifiable(env, empty, nonEmpty) {
		t.Fatalf("expected the empty tuple not to unify with a non-empty one")
	}
}

func TestOtherRequiresEqualHash(t *testing.T) {
	env := typeterm.NewEnv()
	a := env.NewOther(1)
	b := env.NewOther(1)
	c := env.NewOther(2)
	if !Unifiable(env, a, b) {
		t.Fatalf("Other terms with equal hash should unify")
	}
	if Unifiable(env, a, c) {
		t.Fatalf("Other terms with differing hash should not unify")
	}
}

func TestPermutationsCount(t *testing.T) {
	perms := permutations(3)
	if len(perms) != 6 {
		t.Fatalf("permutations(3) has %d entries, want 6", len(perms))
	}
}

func TestSurjectionsAreSurjective(t *testing.T) {
	for _, assignment := range surjections(4, 2) {
		seen := map[int]bool{}
		for _, bin := range assignment {
			seen[bin] = true
		}
		if len(seen) != 2 {
			t.Fatalf("surjections(4, 2) produced a non-surjective assignment: %v", assignment)
		}
	}
}
