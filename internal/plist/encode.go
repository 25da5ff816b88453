package plist

import (
	"strconv"

	"github.com/beevik/etree"
)

// Encode converts a [Value] back into a property-list element, the inverse
// of [Decode]. Null values encode to an empty string element so the result
// is always a well-formed tree.
func Encode(v Value) *etree.Element {
	switch v.kind {
	case KindString:
		el := etree.NewElement("string")
		el.SetText(v.str)
		return el
	case KindInt:
		el := etree.NewElement("integer")
		el.SetText(strconv.FormatInt(v.num, 10))
		return el
	case KindBool:
		if v.b {
			return etree.NewElement("true")
		}
		return etree.NewElement("false")
	case KindDict:
		el := etree.NewElement("dict")
		for _, k := range v.dict.keys {
			key := el.CreateElement("key")
			key.SetText(k)
			el.AddChild(Encode(v.dict.values[k]))
		}
		return el
	case KindArray:
		el := etree.NewElement("array")
		for _, item := range v.arr {
			el.AddChild(Encode(item))
		}
		return el
	default:
		return etree.NewElement("string")
	}
}
