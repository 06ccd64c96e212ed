package nezamcrawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UnknownPlace fills WorkProvince and WorkCity when a row's location
// cannot be split ("unknown" in Persian).
const UnknownPlace = "نامشخص"

const doctorRowSelector = "tbody tr"

// doctorColumns holds the 0-based td positions of a listing row. Cell 0 is
// the row number.
var doctorColumns = struct {
	Name, Nezam, Specialty, Location, Membership int
}{
	Name:       1,
	Nezam:      2,
	Specialty:  3,
	Location:   4,
	Membership: 5,
}

// ParseResult is what one listing page yields.
type ParseResult struct {
	Records   []DoctorRecord
	Malformed int // rows whose location fell back to UnknownPlace
	Skipped   int // rows without enough cells to be a doctor
}

// ParseDoctors turns every listing row of doc into a record scraped under city.
func ParseDoctors(doc *goquery.Document, city string) ParseResult {
	var result ParseResult
	doc.Find(doctorRowSelector).Each(func(i int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() <= doctorColumns.Membership {
			result.Skipped++
			return
		}

		workProvince, workCity, ok := splitLocation(cellText(cells.Eq(doctorColumns.Location)))
		if !ok {
			result.Malformed++
		}

		result.Records = append(result.Records, DoctorRecord{
			Fullname:       normalizeName(cellText(cells.Eq(doctorColumns.Name))),
			Nezam:          cellText(cells.Eq(doctorColumns.Nezam)),
			Specialty:      specialtyLabel(cellText(cells.Eq(doctorColumns.Specialty))),
			City:           city,
			AuthorizedCity: city,
			WorkCity:       workCity,
			WorkProvince:   workProvince,
			Membership:     cellText(cells.Eq(doctorColumns.Membership)),
		})
	})
	return result
}

// cellText prefers the cell's link text, which is where the site puts values.
func cellText(td *goquery.Selection) string {
	if a := td.Find("a").First(); a.Length() > 0 {
		return strings.TrimSpace(a.Text())
	}
	return strings.TrimSpace(td.Text())
}

// normalizeName joins the non-empty whitespace separated fragments of raw.
func normalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// specialtyLabel drops the "| qualifier" suffix.
func specialtyLabel(raw string) string {
	label, _, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(label)
}

// splitLocation splits "Province-City". Anything other than exactly two
// parts yields UnknownPlace for both.
func splitLocation(raw string) (province, city string, ok bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return UnknownPlace, UnknownPlace, false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
