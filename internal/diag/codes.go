package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode закрывает случаи, не получившие собственного кода.
	UnknownCode Code = 0

	// Заголовки (находки движка проверки)
	HdrInfo         Code = 1000
	HdrMissing      Code = 1001
	HdrWrongKind    Code = 1002
	HdrTooShort     Code = 1003
	HdrTooLong      Code = 1004
	HdrLineTooShort Code = 1005
	HdrLineTooLong  Code = 1006
	HdrLineMismatch Code = 1007
	HdrPattern      Code = 1008
	HdrTrailing     Code = 1009

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgInfo         Code = 5000
	CfgNotFound     Code = 5001
	CfgParseError   Code = 5002
	CfgInvalidValue Code = 5003
	CfgBadPattern   Code = 5004
	CfgBadTemplate  Code = 5005

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unclassified error",

	HdrInfo:         "Header information",
	HdrMissing:      "Missing header",
	HdrWrongKind:    "Wrong header comment kind",
	HdrTooShort:     "Header has fewer lines than expected",
	HdrTooLong:      "Header has more lines than expected",
	HdrLineTooShort: "Header line is shorter than expected",
	HdrLineTooLong:  "Header line is longer than expected",
	HdrLineMismatch: "Header line differs from expected text",
	HdrPattern:      "Header line does not match pattern",
	HdrTrailing:     "Missing blank line(s) after header",

	IOInfo:          "I/O information",
	IOLoadFileError: "File cannot be read",

	CfgInfo:         "Configuration information",
	CfgNotFound:     "Configuration file not found",
	CfgParseError:   "Configuration file cannot be parsed",
	CfgInvalidValue: "Configuration value is invalid",
	CfgBadPattern:   "Header pattern does not compile",
	CfgBadTemplate:  "Header template file is invalid",

	ObsInfo:    "Observability note",
	ObsTimings: "Timing breakdown",
}

// codeFamilies задаёт префикс идентификатора для каждой тысячной серии.
var codeFamilies = []struct {
	lo, hi Code
	prefix string
}{
	{1000, 2000, "HDR"},
	{4000, 5000, "IO"},
	{5000, 6000, "CFG"},
	{6000, 7000, "OBS"},
}

// ID returns the stable identifier used in output, e.g. "HDR1001".
func (c Code) ID() string {
	for _, fam := range codeFamilies {
		if c >= fam.lo && c < fam.hi {
			return fmt.Sprintf("%s%04d", fam.prefix, uint16(c))
		}
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}
