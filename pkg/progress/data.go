// Package progress caches per-subject learning progress series and the
// statistics derived from them.
package progress

// AllSubjects selects the month-by-month average across every subject.
const AllSubjects = "all"

// Record is one month of progress for a subject.
type Record struct {
	Month    string `json:"month"`
	Progress int    `json:"progress"`
}

// Subject is a subject and its ordered monthly records.
type Subject struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Dataset is the read-only input the cache derives everything from.
// Subject order determines month order for the aggregate series.
type Dataset []Subject

// Lookup returns the records of a subject by ID.
func (d Dataset) Lookup(id string) ([]Record, bool) {
	for _, s := range d {
		if s.ID == id {
			return s.Records, true
		}
	}
	return nil, false
}

// IDs returns the subject IDs in dataset order.
func (d Dataset) IDs() []string {
	ids := make([]string, 0, len(d))
	for _, s := range d {
		ids = append(ids, s.ID)
	}
	return ids
}

// SampleDataset returns the built-in progress data used by the dashboard.
func SampleDataset() Dataset {
	return Dataset{
		{
			ID:   "math",
			Name: "Mathematics",
			Records: []Record{
				{Month: "Jan", Progress: 60},
				{Month: "Feb", Progress: 65},
				{Month: "Mar", Progress: 70},
				{Month: "Apr", Progress: 75},
				{Month: "May", Progress: 80},
				{Month: "Jun", Progress: 85},
			},
		},
		{
			ID:   "science",
			Name: "Science",
			Records: []Record{
				{Month: "Jan", Progress: 55},
				{Month: "Feb", Progress: 62},
				{Month: "Mar", Progress: 68},
				{Month: "Apr", Progress: 72},
				{Month: "May", Progress: 78},
				{Month: "Jun", Progress: 82},
			},
		},
		{
			ID:   "english",
			Name: "English",
			Records: []Record{
				{Month: "Jan", Progress: 70},
				{Month: "Feb", Progress: 72},
				{Month: "Mar", Progress: 75},
				{Month: "Apr", Progress: 74},
				{Month: "May", Progress: 78},
				{Month: "Jun", Progress: 80},
			},
		},
		{
			ID:   "history",
			Name: "History",
			Records: []Record{
				{Month: "Jan", Progress: 50},
				{Month: "Feb", Progress: 58},
				{Month: "Mar", Progress: 63},
				{Month: "Apr", Progress: 67},
				{Month: "May", Progress: 70},
				{Month: "Jun", Progress: 75},
			},
		},
	}
}
