package parser

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// objectClassNames maps S-57 object class codes (OBJL) to their acronyms.
// Source: IHO S-57 Edition 3.1 Appendix A - Object Catalogue.
var objectClassNames = map[int]string{
	1:   "ADMARE",
	2:   "AIRARE",
	3:   "ACHBRT",
	4:   "ACHARE",
	5:   "BCNCAR",
	6:   "BCNISD",
	7:   "BCNLAT",
	8:   "BCNSAW",
	9:   "BCNSPP",
	10:  "BERTHS",
	11:  "BRIDGE",
	12:  "BUISGL",
	13:  "BUAARE",
	14:  "BOYCAR",
	15:  "BOYINB",
	16:  "BOYISD",
	17:  "BOYLAT",
	18:  "BOYSAW",
	19:  "BOYSPP",
	20:  "CBLARE",
	21:  "CBLOHD",
	22:  "CBLSUB",
	23:  "CANALS",
	24:  "CANBNK",
	25:  "CTSARE",
	26:  "CAUSWY",
	27:  "CTNARE",
	28:  "CHKPNT",
	29:  "CGUSTA",
	30:  "COALNE",
	31:  "CONZNE",
	32:  "COSARE",
	33:  "CTRPNT",
	34:  "CONVYR",
	35:  "CRANES",
	36:  "CURENT",
	37:  "CUSZNE",
	38:  "DAMCON",
	39:  "DAYMAR",
	40:  "DWRTCL",
	41:  "DWRTPT",
	42:  "DEPARE",
	43:  "DEPCNT",
	44:  "DISMAR",
	45:  "DOCARE",
	46:  "DRGARE",
	47:  "DRYDOC",
	48:  "DMPGRD",
	49:  "DYKCON",
	50:  "EXEZNE",
	51:  "FAIRWY",
	52:  "FNCLNE",
	53:  "FERYRT",
	54:  "FSHZNE",
	55:  "FSHFAC",
	56:  "FSHGRD",
	57:  "FLODOC",
	58:  "FOGSIG",
	59:  "FORSTC",
	60:  "FRPARE",
	61:  "GATCON",
	62:  "GRIDRN",
	63:  "HRBARE",
	64:  "HRBFAC",
	65:  "HULKES",
	66:  "ICEARE",
	67:  "ICNARE",
	68:  "ISTZNE",
	69:  "LAKARE",
	70:  "LAKSHR",
	71:  "LNDARE",
	72:  "LNDELV",
	73:  "LNDRGN",
	74:  "LNDMRK",
	75:  "LIGHTS",
	76:  "LITFLT",
	77:  "LITVES",
	78:  "LOCMAG",
	79:  "LOKBSN",
	80:  "LOGPON",
	81:  "MAGVAR",
	82:  "MARCUL",
	83:  "MIPARE",
	84:  "MORFAC",
	85:  "NAVLNE",
	86:  "OBSTRN",
	87:  "OFSPLF",
	88:  "OSPARE",
	89:  "OILBAR",
	90:  "PILPNT",
	91:  "PILBOP",
	92:  "PIPARE",
	93:  "PIPOHD",
	94:  "PIPSOL",
	95:  "PONTON",
	96:  "PRCARE",
	97:  "PRDARE",
	98:  "PYLONS",
	99:  "RADLNE",
	100: "RADRNG",
	101: "RADRFL",
	102: "RADSTA",
	103: "RTPBCN",
	104: "RDOCAL",
	105: "RDOSTA",
	106: "RAILWY",
	107: "RAPIDS",
	108: "RCRTCL",
	109: "RECTRC",
	110: "RCTLPT",
	111: "RSCSTA",
	112: "RESARE",
	113: "RETRFL",
	114: "RIVERS",
	115: "RIVBNK",
	116: "ROADWY",
	117: "RUNWAY",
	118: "SNDWAV",
	119: "SEAARE",
	120: "SPLARE",
	121: "SBDARE",
	122: "SLCONS",
	123: "SISTAT",
	124: "SISTAW",
	125: "SILTNK",
	126: "SLOTOP",
	127: "SLOGRD",
	128: "SMCFAC",
	129: "SOUNDG",
	130: "SPRING",
	131: "SQUARE",
	132: "STSLNE",
	133: "SUBTLN",
	134: "SWPARE",
	135: "TESARE",
	136: "TS_PRH",
	137: "TS_PNH",
	138: "TS_PAD",
	139: "TS_TIS",
	140: "T_HMON",
	141: "T_NHMN",
	142: "T_TIMS",
	143: "TIDEWY",
	144: "TOPMAR",
	145: "TSELNE",
	146: "TSSBND",
	147: "TSSCRS",
	148: "TSSLPT",
	149: "TSSRON",
	150: "TSEZNE",
	151: "TUNNEL",
	152: "TWRTPT",
	153: "UWTROC",
	154: "UNSARE",
	155: "VEGATN",
	156: "WATTUR",
	157: "WATFAL",
	158: "WEDKLP",
	159: "WRECKS",
	300: "M_ACCY",
	301: "M_CSCL",
	302: "M_COVR",
	303: "M_HDAT",
	304: "M_HOPA",
	305: "M_NPUB",
	306: "M_NSYS",
	307: "M_PROD",
	308: "M_QUAL",
	309: "M_SDAT",
	310: "M_SREL",
	311: "M_UNIT",
	312: "M_VDAT",
	400: "C_AGGR",
	401: "C_ASSO",
	402: "C_STAC",
}

var (
	objectClassCodes map[string]int
	objectClassOnce  sync.Once
)

func loadObjectClassCodes() {
	objectClassCodes = make(map[string]int, len(objectClassNames))
	for code, name := range objectClassNames {
		objectClassCodes[name] = code
	}
}

// ObjectClassToString converts an S-57 numeric object class to its acronym.
// A code that isn't in the catalogue — structurally invalid (<=0) or
// simply not one the objectClassNames table lists — is unresolved: the
// caller discards the feature rather than keeping it under a fabricated
// name. The warning is deduplicated per code (see dedupCodes in warn.go)
// so one cell with many instances of the same unknown code doesn't flood
// the warning list.
func ObjectClassToString(code int, coll *Collector) (string, error) {
	if name, ok := objectClassNames[code]; ok {
		return name, nil
	}
	if coll != nil {
		coll.Warnf(SeverityError, "UNKNOWN_OBJECT_CLASS", "unknown object class code %d", code)
	}
	return "", &ErrUnknownObjectClass{Code: code}
}

// ObjectClassToInt converts an object class acronym back to its numeric
// code, the reverse of ObjectClassToString.
func ObjectClassToInt(acronym string) (int, error) {
	objectClassOnce.Do(loadObjectClassCodes)
	if code, ok := objectClassCodes[strings.ToUpper(acronym)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("object class acronym not found in catalogue: %s", acronym)
}

// requiredAttributes maps a handful of well-known object class acronyms to
// attributes the S-57 object catalogue declares mandatory for them. This is
// a representative subset, not the full IHO rule set.
var requiredAttributes = map[string][]string{
	"DEPARE": {"DRVAL1"},
	"SOUNDG": {"VALSOU"},
	"BOYLAT": {"CATBOY"},
	"BOYISD": {"CATBOY"},
	"BOYSPP": {"CATBOY"},
}

// ValidateRequiredAttributes emits a MISSING_REQUIRED_ATTR warning for each
// required attribute that is absent or nil, without discarding the
// feature — a missing attribute degrades fidelity, not validity.
func ValidateRequiredAttributes(objectClass string, attrs map[string]interface{}, recordID int64, coll *Collector) {
	required, ok := requiredAttributes[objectClass]
	if !ok || coll == nil {
		return
	}
	for _, attr := range required {
		if v, present := attrs[attr]; !present || v == nil {
			coll.Warnf(SeverityWarning, "MISSING_REQUIRED_ATTR", "feature %d (%s): missing required attribute %s", recordID, objectClass, attr)
		}
	}
}

// IsSupported reports whether code is a syntactically valid object class
// code. Every positive code parses generically (geometry + attributes);
// this does not imply rendering/styling support, which is out of scope.
func IsSupported(code int) bool {
	return code > 0
}

// AttrType classifies how an ATTF subfield's raw bytes should be coerced,
// per the attribute's declared type in the catalogue.
type AttrType int

const (
	AttrTypeString AttrType = iota
	AttrTypeEnum            // small integer code, single value
	AttrTypeList            // comma-separated list of integer codes (S-57 "L" type)
	AttrTypeFloat
	AttrTypeInt
)

type attrDef struct {
	Code    int
	Name    string
	Acronym string
	Type    AttrType
}

//go:embed s57attributes.csv
var s57AttributesCSV string

var (
	attributesByCode    map[int]attrDef
	attributesByAcronym map[string]attrDef
	attributesOnce      sync.Once
)

func loadAttributeCatalog() {
	attributesByCode = make(map[int]attrDef)
	attributesByAcronym = make(map[string]attrDef)

	reader := csv.NewReader(strings.NewReader(s57AttributesCSV))
	records, err := reader.ReadAll()
	if err != nil {
		return
	}
	for _, rec := range records[1:] {
		if len(rec) < 4 {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		def := attrDef{
			Code:    code,
			Name:    rec[1],
			Acronym: strings.TrimSpace(rec[2]),
			Type:    parseAttrType(rec[3]),
		}
		if def.Acronym == "" {
			continue
		}
		attributesByCode[code] = def
		attributesByAcronym[def.Acronym] = def
	}
}

func parseAttrType(code string) AttrType {
	switch strings.TrimSpace(code) {
	case "E":
		return AttrTypeEnum
	case "L":
		return AttrTypeList
	case "F":
		return AttrTypeFloat
	case "I":
		return AttrTypeInt
	default:
		return AttrTypeString
	}
}

// AttributeCodeToString converts an S-57 numeric attribute code (ATTL) to
// its acronym, e.g. 136 -> "VALSOU". Unknown codes return an "ATTR_<code>"
// placeholder and a warning; unlike ObjectClassToString, no error is
// returned.
func AttributeCodeToString(code int, coll *Collector) string {
	attributesOnce.Do(loadAttributeCatalog)
	if def, ok := attributesByCode[code]; ok {
		return def.Acronym
	}
	if coll != nil {
		coll.Warnf(SeverityWarning, "UNKNOWN_ATTRIBUTE", "unknown attribute code %d", code)
	}
	return fmt.Sprintf("ATTR_%d", code)
}

// attributeDef looks up the full catalogue entry for a numeric code, ok=false
// when the code is not in the catalogue (decoding then falls back to string).
func attributeDef(code int) (attrDef, bool) {
	attributesOnce.Do(loadAttributeCatalog)
	def, ok := attributesByCode[code]
	return def, ok
}

// decodeAttributeValue coerces a raw ATTF subfield value according to the
// attribute's declared type in the catalogue.
func decodeAttributeValue(def attrDef, ok bool, raw string) interface{} {
	if !ok {
		return raw
	}
	switch def.Type {
	case AttrTypeInt, AttrTypeEnum:
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
		return raw
	case AttrTypeFloat:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	case AttrTypeList:
		parts := strings.Split(raw, ",")
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if v, err := strconv.Atoi(p); err == nil {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			return raw
		}
		return out
	default:
		return raw
	}
}
