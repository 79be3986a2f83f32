package index

import (
	"fmt"
	"os"
	"sort"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/tyvar"
	"github.com/typodex/typodex/internal/typeterm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	magic         = "TDX1"
	formatVersion = 1

	bucketEnv     = "env"
	bucketHashcon = "hashcons"
	bucketTrie    = "trie"
	bucketEntries = "entries"
)

// envState is the on-disk shape of a typeterm.Env's variable registry.
type envState struct {
	Next  int            `json:"next"`
	Names map[int]string `json:"names"`
}

// nodeState is the on-disk shape of one hash-consed term, referencing
// child terms by tag. Records are always written and replayed in
// ascending tag order, so every referenced child tag has already been
// reconstructed by the time its parent is processed.
type nodeState struct {
	Tag       uint64   `json:"tag"`
	Kind      int      `json:"kind"`
	VarID     int      `json:"varId,omitempty"`
	CtorPath  string   `json:"ctorPath,omitempty"`
	Args      []uint64 `json:"args,omitempty"`
	HasRet    bool     `json:"hasRet,omitempty"`
	Ret       uint64   `json:"ret,omitempty"`
	OtherHash uint64   `json:"otherHash,omitempty"`
}

type entryState struct {
	Path    string `json:"path"`
	TypeTag uint64 `json:"typeTag"`
}

// Save persists ix to filename as a single opaque file: a 4-byte magic, a
// version byte, then a snappy-compressed bbolt database (spec.md §6.1).
func (ix *Index) Save(filename string) error {
	tmp, err := os.CreateTemp("", "typodex-save-*.bbolt")
	if err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpName)

	db, err := bolt.Open(tmpName, 0o600, nil)
	if err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	if err := ix.writeBolt(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("index: save: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("index: save: %w", err)
	}

	raw, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	out := make([]byte, 0, len(magic)+1+len(compressed))
	out = append(out, magic...)
	out = append(out, formatVersion)
	out = append(out, compressed...)
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	return nil
}

func (ix *Index) writeBolt(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		envBucket, err := tx.CreateBucketIfNotExists([]byte(bucketEnv))
		if err != nil {
			return err
		}
		state := envState{Next: ix.env.Vars.Len(), Names: ix.env.Vars.Names()}
		buf, err := json.Marshal(state)
		if err != nil {
			return err
		}
		if err := envBucket.Put([]byte("state"), buf); err != nil {
			return err
		}

		hashBucket, err := tx.CreateBucketIfNotExists([]byte(bucketHashcon))
		if err != nil {
			return err
		}
		for _, ns := range collectNodes(ix.env, ix.entries) {
			buf, err := json.Marshal(ns)
			if err != nil {
				return err
			}
			if err := hashBucket.Put(tagKey(ns.Tag), buf); err != nil {
				return err
			}
		}

		// The trie bucket mirrors the feature keys each entry indexes
		// under, for external inspection; reconstruction on Load replays
		// the entries bucket instead of parsing this back, since the trie
		// is a pure function of (features, entries).
		trieBucket, err := tx.CreateBucketIfNotExists([]byte(bucketTrie))
		if err != nil {
			return err
		}
		for i, info := range ix.entries {
			vec := ix.feats.Vector(info.Type)
			buf, err := json.Marshal(vec)
			if err != nil {
				return err
			}
			if err := trieBucket.Put(tagKey(uint64(i)), buf); err != nil {
				return err
			}
		}

		entriesBucket, err := tx.CreateBucketIfNotExists([]byte(bucketEntries))
		if err != nil {
			return err
		}
		for _, info := range ix.entries {
			es := entryState{Path: info.Path.String(), TypeTag: info.Type.Tag()}
			buf, err := json.Marshal(es)
			if err != nil {
				return err
			}
			key := append([]byte(info.Path.String()), 0)
			key = append(key, tagKey(info.Type.Tag())...)
			if err := entriesBucket.Put(key, buf); err != nil {
				return err
			}
		}
		return nil
	})
}

func collectNodes(env *typeterm.Env, entries []Info) []nodeState {
	seen := make(map[uint64]bool)
	var out []nodeState
	var visit func(t typeterm.Ty)
	visit = func(t typeterm.Ty) {
		if !t.Valid() || seen[t.Tag()] {
			return
		}
		seen[t.Tag()] = true
		switch t.Kind() {
		case typeterm.KindVar:
			out = append(out, nodeState{Tag: t.Tag(), Kind: int(t.Kind()), VarID: t.Var().ID()})
		case typeterm.KindOther:
			out = append(out, nodeState{Tag: t.Tag(), Kind: int(t.Kind()), OtherHash: t.OtherHash()})
		case typeterm.KindConstr:
			for _, a := range t.ConstrArgs() {
				visit(a)
			}
			out = append(out, nodeState{
				Tag: t.Tag(), Kind: int(t.Kind()), CtorPath: t.ConstrPath().String(),
				Args: tags(t.ConstrArgs()),
			})
		case typeterm.KindTuple:
			for _, a := range t.TupleElems() {
				visit(a)
			}
			out = append(out, nodeState{Tag: t.Tag(), Kind: int(t.Kind()), Args: tags(t.TupleElems())})
		case typeterm.KindArrow:
			for _, a := range t.ArrowArgs() {
				visit(a)
			}
			visit(t.ArrowReturn())
			out = append(out, nodeState{
				Tag: t.Tag(), Kind: int(t.Kind()), Args: tags(t.ArrowArgs()),
				HasRet: true, Ret: t.ArrowReturn().Tag(),
			})
		}
	}
	for _, info := range entries {
		visit(info.Type)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func tags(ts []typeterm.Ty) []uint64 {
	out := make([]uint64, len(ts))
	for i, t := range ts {
		out[i] = t.Tag()
	}
	return out
}

func tagKey(tag uint64) []byte {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(tag)
		tag >>= 8
	}
	return buf[:]
}

// Load reads an index previously written by Save. Terms in the returned
// index belong to a freshly constructed Env; they must not be mixed with
// terms from any other Env (spec.md §4.H).
func Load(filename string, opts Options) (*Index, error) {
	opts = opts.resolve()

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if len(raw) < len(magic)+1 || string(raw[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrLoad)
	}
	version := raw[len(magic)]
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrLoad, version)
	}

	decoded, err := snappy.Decode(nil, raw[len(magic)+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	tmp, err := os.CreateTemp("", "typodex-load-*.bbolt")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(decoded); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	_ = tmp.Close()

	db, err := bolt.Open(tmpName, 0o600, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer db.Close()

	env := typeterm.NewEnv()
	ix := New(env, opts)

	if err := db.View(func(tx *bolt.Tx) error {
		if err := loadEnvState(tx, env); err != nil {
			return err
		}
		tagToTy, err := loadHashcons(tx, env)
		if err != nil {
			return err
		}
		return loadEntries(tx, ix, tagToTy)
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return ix, nil
}

func loadEnvState(tx *bolt.Tx, env *typeterm.Env) error {
	b := tx.Bucket([]byte(bucketEnv))
	if b == nil {
		return fmt.Errorf("missing %s bucket", bucketEnv)
	}
	buf := b.Get([]byte("state"))
	if buf == nil {
		return fmt.Errorf("missing env state")
	}
	var state envState
	if err := json.Unmarshal(buf, &state); err != nil {
		return err
	}
	for id, name := range state.Names {
		env.Vars.SetName(tyvar.Restore(id), name)
	}
	env.Vars.SetNext(state.Next)
	return nil
}

func loadHashcons(tx *bolt.Tx, env *typeterm.Env) (map[uint64]typeterm.Ty, error) {
	b := tx.Bucket([]byte(bucketHashcon))
	if b == nil {
		return nil, fmt.Errorf("missing %s bucket", bucketHashcon)
	}
	tagToTy := make(map[uint64]typeterm.Ty)
	return tagToTy, b.ForEach(func(_, v []byte) error {
		var ns nodeState
		if err := json.Unmarshal(v, &ns); err != nil {
			return err
		}
		resolved, err := resolveArgs(ns.Args, tagToTy)
		if err != nil {
			return err
		}
		var t typeterm.Ty
		switch typeterm.Kind(ns.Kind) {
		case typeterm.KindVar:
			t = env.NewVar(tyvar.Restore(ns.VarID))
		case typeterm.KindOther:
			t = env.NewOther(ns.OtherHash)
		case typeterm.KindConstr:
			t = env.NewConstr(path.Parse(ns.CtorPath), resolved)
		case typeterm.KindTuple:
			t = env.NewTuple(resolved)
		case typeterm.KindArrow:
			ret, ok := tagToTy[ns.Ret]
			if !ok {
				return fmt.Errorf("dangling return tag %d", ns.Ret)
			}
			t = env.NewArrowN(resolved, ret)
		default:
			return fmt.Errorf("unknown kind %d", ns.Kind)
		}
		tagToTy[ns.Tag] = t
		return nil
	})
}

func resolveArgs(tags []uint64, tagToTy map[uint64]typeterm.Ty) ([]typeterm.Ty, error) {
	out := make([]typeterm.Ty, len(tags))
	for i, tag := range tags {
		t, ok := tagToTy[tag]
		if !ok {
			return nil, fmt.Errorf("dangling argument tag %d", tag)
		}
		out[i] = t
	}
	return out, nil
}

func loadEntries(tx *bolt.Tx, ix *Index, tagToTy map[uint64]typeterm.Ty) error {
	b := tx.Bucket([]byte(bucketEntries))
	if b == nil {
		return fmt.Errorf("missing %s bucket", bucketEntries)
	}
	return b.ForEach(func(_, v []byte) error {
		var es entryState
		if err := json.Unmarshal(v, &es); err != nil {
			return err
		}
		ty, ok := tagToTy[es.TypeTag]
		if !ok {
			return fmt.Errorf("entry %q references unknown type tag %d", es.Path, es.TypeTag)
		}
		ix.Insert(Info{Path: path.Parse(es.Path), Type: ty})
		return nil
	})
}
