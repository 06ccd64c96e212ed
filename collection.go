package nezamcrawler

import "slices"

// DoctorRecord is one row of a specialty listing. City and AuthorizedCity
// are the city under which the row was scraped, WorkCity and WorkProvince
// come from the row text.
type DoctorRecord struct {
	Fullname       string `json:"fullname" bson:"fullname" bigquery:"fullname" datastore:"fullname"`
	Nezam          string `json:"nezam" bson:"nezam" bigquery:"nezam" datastore:"nezam"`
	Specialty      string `json:"specialty" bson:"specialty" bigquery:"specialty" datastore:"specialty"`
	City           string `json:"city" bson:"city" bigquery:"city" datastore:"city"`
	AuthorizedCity string `json:"authorized_city" bson:"authorized_city" bigquery:"authorized_city" datastore:"authorized_city"`
	WorkCity       string `json:"work_city" bson:"work_city" bigquery:"work_city" datastore:"work_city"`
	WorkProvince   string `json:"work_province" bson:"work_province" bigquery:"work_province" datastore:"work_province"`
	Membership     string `json:"membership" bson:"membership" bigquery:"membership" datastore:"membership"`
}

// doctorHeader is the export column order.
var doctorHeader = []string{
	"Fullname",
	"Nezam",
	"Specialty",
	"City",
	"AuthorizedCity",
	"WorkCity",
	"WorkProvince",
	"Membership",
}

func (r DoctorRecord) row() []string {
	return []string{
		r.Fullname,
		r.Nezam,
		r.Specialty,
		r.City,
		r.AuthorizedCity,
		r.WorkCity,
		r.WorkProvince,
		r.Membership,
	}
}

// Accumulator collects records for a single scrape run.
type Accumulator struct {
	records []DoctorRecord
}

func (a *Accumulator) Append(records ...DoctorRecord) {
	a.records = append(a.records, records...)
}

func (a *Accumulator) Len() int {
	return len(a.records)
}

// Snapshot returns a copy that later appends cannot affect.
func (a *Accumulator) Snapshot() []DoctorRecord {
	return slices.Clone(a.records)
}

// DedupeByNezam keeps the first record for every Nezam id, in order.
func DedupeByNezam(records []DoctorRecord) []DoctorRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]DoctorRecord, 0, len(records))
	for _, r := range records {
		if seen[r.Nezam] {
			continue
		}
		seen[r.Nezam] = true
		unique = append(unique, r)
	}
	return unique
}
