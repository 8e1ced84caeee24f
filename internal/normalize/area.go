package normalize

import "strings"

// Area is one of the five areas of economic freedom, or the summary
// pseudo-area (Number 0).
type Area struct {
	Number int
	Name   string
}

// SummaryArea holds indicators that belong to no numbered area.
var SummaryArea = Area{Number: 0, Name: "Economic Freedom Summary Index"}

var areas = [...]Area{
	{1, "Size of Government"},
	{2, "Legal System & Property Rights"},
	{3, "Sound Money"},
	{4, "Freedom to Trade Internationally"},
	{5, "Regulation"},
}

// Areas returns the five numbered areas in order.
func Areas() []Area { return append([]Area(nil), areas[:]...) }

// AreaFor derives an indicator's area from the digits in its code. Digits
// are tried in ascending order by substring, so "Area4" and "4Aii" map to
// area 4 and a compound code such as "25" maps to area 2. Codes with no
// digit 1-5 map to SummaryArea.
func AreaFor(code string) Area {
	for _, a := range areas {
		if strings.ContainsRune(code, rune('0'+a.Number)) {
			return a
		}
	}
	return SummaryArea
}
