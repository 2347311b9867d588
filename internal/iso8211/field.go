package iso8211

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// SubfieldType describes how to decode one subfield of a field: its Go
// kind, its fixed byte width (0 for delimited variable-length), and the
// subfield's tag from the array descriptor.
type SubfieldType struct {
	Kind reflect.Kind
	Size int
	Tag  string
}

// FieldType is the lead record's (DDR) description of a field: its name,
// array descriptor, and format controls, from which the binary layout of
// every data record's occurrence of that field can be decoded.
//
// Array descriptor and format controls follow S-57 Part 3 §7.2.2.1: the
// descriptor is a "!"-separated list of subfield tags, optionally repeated
// when prefixed with "*"; the format controls are a parenthesized,
// comma-separated list of codes such as A(n), b12, b24, 2b24.
type FieldType struct {
	Tag             string
	Name            string
	ArrayDescriptor string
	FormatControls  string

	subfields []SubfieldType
}

var formatTokenRE = regexp.MustCompile(`(\d*)(\w+)\(*(\d*)\)*`)

// Subfields lazily computes and caches the decoded subfield layout for
// this field type.
func (ft *FieldType) Subfields() []SubfieldType {
	if ft.subfields != nil {
		return ft.subfields
	}
	if len(ft.FormatControls) < 2 {
		return nil
	}

	tags := splitDescriptor(ft.ArrayDescriptor)
	tagIdx := 0
	var types []SubfieldType

	for _, m := range formatTokenRE.FindAllStringSubmatch(ft.FormatControls, -1) {
		repeat := 1
		if m[1] != "" {
			repeat, _ = strconv.Atoi(m[1])
		}
		size := 0
		if m[3] != "" {
			size, _ = strconv.Atoi(m[3])
		}
		code := m[2]

		for ; repeat > 0; repeat-- {
			tag := ""
			if tagIdx < len(tags) {
				tag = tags[tagIdx]
			}
			switch code[0] {
			case 'A', 'I', 'R':
				types = append(types, SubfieldType{Kind: reflect.String, Size: size, Tag: tag})
			case 'B':
				types = append(types, SubfieldType{Kind: reflect.Array, Size: size / 8, Tag: tag})
			case 'b':
				switch code[1:] {
				case "11":
					types = append(types, SubfieldType{Kind: reflect.Uint8, Size: 1, Tag: tag})
				case "12":
					types = append(types, SubfieldType{Kind: reflect.Uint16, Size: 2, Tag: tag})
				case "14":
					types = append(types, SubfieldType{Kind: reflect.Uint32, Size: 4, Tag: tag})
				case "21":
					types = append(types, SubfieldType{Kind: reflect.Int8, Size: 1, Tag: tag})
				case "22":
					types = append(types, SubfieldType{Kind: reflect.Int16, Size: 2, Tag: tag})
				case "24":
					types = append(types, SubfieldType{Kind: reflect.Int32, Size: 4, Tag: tag})
				}
			}
			tagIdx++
		}
	}
	ft.subfields = types
	return ft.subfields
}

func splitDescriptor(desc string) []string {
	desc = strings.TrimPrefix(desc, "*")
	if desc == "" {
		return nil
	}
	return strings.Split(desc, "!")
}

// Decode splits raw field data into typed subfield values using this
// field type's descriptor/format-control layout. Binary subfields are
// fixed-width little-endian; "A"/"I"/"R" subfields with Size==0 are
// delimited by UnitTerminator, otherwise fixed-width ASCII.
func (ft *FieldType) Decode(data []byte) []interface{} {
	types := ft.Subfields()
	if len(types) == 0 {
		return nil
	}

	buf := bytes.NewBuffer(data)
	var values []interface{}
	for buf.Len() > 0 {
		for _, st := range types {
			switch st.Kind {
			case reflect.Uint8:
				var v uint8
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			case reflect.Uint16:
				var v uint16
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			case reflect.Uint32:
				var v uint32
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			case reflect.Int8:
				var v int8
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			case reflect.Int16:
				var v int16
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			case reflect.Int32:
				var v int32
				binary.Read(buf, binary.LittleEndian, &v)
				values = append(values, v)
			default:
				if st.Size == 0 {
					s, err := buf.ReadString(UnitTerminator)
					if err != nil {
						values = append(values, s)
					} else {
						values = append(values, s[:len(s)-1])
					}
				} else {
					values = append(values, string(buf.Next(st.Size)))
				}
			}
		}
	}
	return values
}
