package foundation

import (
	"math"
	"time"

	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/go-plist"
	"github.com/pkg/errors"
)

// PropertyList is the untyped object graph of a property list.
type PropertyList = objc.NSObjectKind

// DecodePropertyList parses a property list in any format into Foundation objects.
// Data values are not supported.
func DecodePropertyList(data []byte) (PropertyList, error) {
	var v any
	if _, err := plist.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "failed to decode plist")
	}
	return FromGo(v)
}

// EncodePropertyList renders obj as an XML property list.
func EncodePropertyList(obj PropertyList) ([]byte, error) {
	v, err := ToGo(obj)
	if err != nil {
		return nil, err
	}
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode plist")
	}
	return data, nil
}

// FromGo converts a decoded property list value into an owned Foundation object.
func FromGo(v any) (PropertyList, error) {
	switch v := v.(type) {
	case string:
		return NewNSString(v), nil
	case bool:
		return NumberWithBool(v), nil
	case int:
		return NumberWithInt(int64(v)), nil
	case int64:
		return NumberWithInt(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return NumberWithInt(int64(v)), nil
		}
		return NumberWithUint(v), nil
	case float32:
		return NumberWithFloat(float64(v)), nil
	case float64:
		return NumberWithFloat(v), nil
	case time.Time:
		return NSDateFromTime(v), nil
	case []any:
		arr := NewNSMutableArray[objc.NSObjectKind]()
		for i, item := range v {
			obj, err := FromGo(item)
			if err != nil {
				arr.Release()
				return nil, errors.Wrapf(err, "index %d", i)
			}
			arr.AddObject(obj)
			release(obj)
		}
		defer arr.Release()
		return arr.Copy(), nil
	case map[string]any:
		dict := NewNSMutableDictionary[objc.NSObjectKind, objc.NSObjectKind]()
		for key, item := range v {
			obj, err := FromGo(item)
			if err != nil {
				dict.Release()
				return nil, errors.Wrapf(err, "key %q", key)
			}
			k := NewNSString(key)
			dict.Set(k, obj)
			k.Release()
			release(obj)
		}
		defer dict.Release()
		return dict.Copy(), nil
	default:
		return nil, errors.Errorf("unsupported plist value of type %T", v)
	}
}

// ToGo converts a Foundation object graph into plain Go values.
func ToGo(obj PropertyList) (any, error) {
	switch o := obj.(type) {
	case *NSString:
		return o.String(), nil
	case *NSNumber:
		switch {
		case o.IsBool():
			return o.BoolValue(), nil
		case o.ObjCType() == "d" || o.ObjCType() == "f":
			return o.FloatValue(), nil
		case o.ObjCType() == "Q":
			return o.UintValue(), nil
		default:
			return o.IntValue(), nil
		}
	case *NSDate:
		return o.Time(), nil
	case NSArrayKind[objc.NSObjectKind]:
		arr := AsNSArray(o)
		defer arr.Release()
		out := make([]any, 0, arr.Count())
		for item := range arr.All() {
			v, err := ToGo(item)
			release(item)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", len(out))
			}
			out = append(out, v)
		}
		return out, nil
	case NSDictionaryKind[objc.NSObjectKind, objc.NSObjectKind]:
		dict := AsNSDictionary(o)
		defer dict.Release()
		out := make(map[string]any, dict.Count())
		for k, item := range dict.All() {
			key, ok := k.(*NSString)
			if !ok {
				desc := objc.Describe(k)
				release(k)
				release(item)
				return nil, errors.Errorf("plist keys must be strings, got %s", desc)
			}
			v, err := ToGo(item)
			name := key.String()
			release(k)
			release(item)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", name)
			}
			out[name] = v
		}
		return out, nil
	default:
		return nil, errors.Errorf("%s cannot be stored in a plist", objc.Describe(obj))
	}
}
