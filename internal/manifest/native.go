package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"howett.net/plist"
)

// Native edits XML property lists in process with the same Add/Set
// semantics as PlistBuddy: Add fails on an existing entry and Set fails on
// a missing one.
type Native struct{}

// Apply implements Editor.
func (n *Native) Apply(_ context.Context, path string, op Op) error {
	root, err := ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if root == nil {
		root = map[string]interface{}{}
	}
	if err := apply(root, op); err != nil {
		return errors.Wrapf(err, "%s", op.Command())
	}
	data, err := plist.MarshalIndent(root, plist.XMLFormat, "\t")
	if err != nil {
		return errors.Wrap(err, "encoding property list")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ReadFile decodes the property list at path.
func ReadFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root map[string]interface{}
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return root, nil
}

// apply performs op on the tree rooted at root.
func apply(root map[string]interface{}, op Op) error {
	segs := strings.Split(op.Key, ":")
	for _, s := range segs {
		if s == "" {
			return fmt.Errorf("invalid key %q", op.Key)
		}
	}
	var value interface{}
	if op.Type != "" {
		v, err := convert(op.Type, op.Value)
		if err != nil {
			return err
		}
		value = v
	}
	_, err := applyIn(root, segs, op, value)
	return err
}

// applyIn descends into node along segs and returns the updated node.
// Slices are returned because appending may reallocate them.
func applyIn(node interface{}, segs []string, op Op, value interface{}) (interface{}, error) {
	last := len(segs) == 1
	switch n := node.(type) {
	case map[string]interface{}:
		child, exists := n[segs[0]]
		if !last {
			if !exists {
				return nil, fmt.Errorf("entry %q does not exist", segs[0])
			}
			updated, err := applyIn(child, segs[1:], op, value)
			if err != nil {
				return nil, err
			}
			n[segs[0]] = updated
			return n, nil
		}
		switch op.Verb {
		case VerbAdd:
			if exists {
				return nil, fmt.Errorf("entry %q already exists", segs[0])
			}
		case VerbSet:
			if !exists {
				return nil, fmt.Errorf("entry %q does not exist", segs[0])
			}
			if value == nil {
				v, err := convertLike(child, op.Value)
				if err != nil {
					return nil, err
				}
				value = v
			}
		default:
			return nil, fmt.Errorf("unknown verb %q", op.Verb)
		}
		n[segs[0]] = value
		return n, nil

	case []interface{}:
		idx, err := strconv.Atoi(segs[0])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid array index %q", segs[0])
		}
		if !last {
			if idx >= len(n) {
				return nil, fmt.Errorf("array index %d out of range", idx)
			}
			updated, err := applyIn(n[idx], segs[1:], op, value)
			if err != nil {
				return nil, err
			}
			n[idx] = updated
			return n, nil
		}
		switch op.Verb {
		case VerbAdd:
			if idx > len(n) {
				return nil, fmt.Errorf("array index %d out of range", idx)
			}
			n = append(n, nil)
			copy(n[idx+1:], n[idx:])
			n[idx] = value
			return n, nil
		case VerbSet:
			if idx >= len(n) {
				return nil, fmt.Errorf("array index %d does not exist", idx)
			}
			n[idx] = value
			return n, nil
		default:
			return nil, fmt.Errorf("unknown verb %q", op.Verb)
		}

	default:
		return nil, fmt.Errorf("entry %q is not a container", segs[0])
	}
}

// convert parses a PlistBuddy value of type typ.
func convert(typ, raw string) (interface{}, error) {
	switch typ {
	case TypeString:
		return raw, nil
	case TypeBool:
		return strconv.ParseBool(raw)
	case TypeInteger:
		return strconv.ParseInt(raw, 10, 64)
	case TypeReal:
		return strconv.ParseFloat(raw, 64)
	case TypeArray:
		return []interface{}{}, nil
	case TypeDict:
		return map[string]interface{}{}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %q", typ)
	}
}

// convertLike parses raw as the type of the existing value.
func convertLike(existing interface{}, raw string) (interface{}, error) {
	switch existing.(type) {
	case bool:
		return convert(TypeBool, raw)
	case int64, uint64:
		return convert(TypeInteger, raw)
	case float64:
		return convert(TypeReal, raw)
	default:
		return raw, nil
	}
}
