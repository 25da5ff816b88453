package plist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// MalformedIntegerError reports an integer element whose text content is
// not a parseable whole number. It aborts the decode that encountered it.
type MalformedIntegerError struct {
	Text string
	Err  error
}

func (e *MalformedIntegerError) Error() string {
	return fmt.Sprintf("plist: malformed integer %q", e.Text)
}

func (e *MalformedIntegerError) Unwrap() error { return e.Err }

// Decode converts one property-list element into a [Value].
//
// Dispatch is purely by tag: string, integer, true, false, date, dict and
// array map to the corresponding variants; any other tag decodes to the
// Null value so unfamiliar markup is tolerated. Dict children are paired
// by a single left-to-right pass: a key element is joined with its
// immediately following sibling, a trailing key with no sibling is dropped
// and a repeated key keeps the last value seen. Non-numeric integer text
// is the one hard failure and aborts the whole call.
func Decode(el *etree.Element) (Value, error) {
	switch el.Tag {
	case "string":
		return String(el.Text()), nil
	case "integer":
		text := strings.TrimSpace(el.Text())
		if text == "" {
			return Int(0), nil
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Null, &MalformedIntegerError{Text: text, Err: err}
		}
		return Int(n), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "date":
		// Dates stay verbatim; downstream consumers treat them as text.
		return String(el.Text()), nil
	case "dict":
		return decodeDict(el)
	case "array":
		children := el.ChildElements()
		items := make([]Value, 0, len(children))
		for _, child := range children {
			v, err := Decode(child)
			if err != nil {
				return Null, err
			}
			items = append(items, v)
		}
		return ArrayValue(items), nil
	default:
		return Null, nil
	}
}

// decodeDict walks dict children with a cursor, pairing each key element
// with the sibling that follows it.
func decodeDict(el *etree.Element) (Value, error) {
	children := el.ChildElements()
	dict := NewDict()

	i := 0
	for i < len(children) {
		if children[i].Tag == "key" && i+1 < len(children) {
			v, err := Decode(children[i+1])
			if err != nil {
				return Null, err
			}
			dict.Set(children[i].Text(), v)
			i += 2
		} else {
			i++
		}
	}

	return DictValue(dict), nil
}
