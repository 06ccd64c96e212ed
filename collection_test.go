package nezamcrawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulatorSnapshotIsIndependent(t *testing.T) {
	var acc Accumulator
	acc.Append(DoctorRecord{Nezam: "1"}, DoctorRecord{Nezam: "2"})

	snapshot := acc.Snapshot()
	acc.Append(DoctorRecord{Nezam: "3"})
	snapshot[0].Nezam = "changed"

	assert.Len(t, snapshot, 2)
	assert.Equal(t, 3, acc.Len())
	assert.Equal(t, "1", acc.Snapshot()[0].Nezam)
}

func TestDedupeByNezam(t *testing.T) {
	records := []DoctorRecord{
		{Nezam: "1", City: "A"},
		{Nezam: "2", City: "A"},
		{Nezam: "1", City: "B"},
	}

	unique := DedupeByNezam(records)

	assert.Equal(t, []DoctorRecord{{Nezam: "1", City: "A"}, {Nezam: "2", City: "A"}}, unique)
}

func TestRecordRowFollowsHeader(t *testing.T) {
	r := DoctorRecord{Fullname: "f", Nezam: "n", Specialty: "s", City: "c", AuthorizedCity: "ac", WorkCity: "wc", WorkProvince: "wp", Membership: "m"}
	row := r.row()
	assert.Len(t, row, len(doctorHeader))
	assert.Equal(t, []string{"f", "n", "s", "c", "ac", "wc", "wp", "m"}, row)
}
