package course

// Record is an unvalidated catalog row as read from a store or import file.
type Record struct {
	Title         string
	Description   string
	Code          string
	HubUnits      []string
	Prerequisites string
	Credits       *float64
}

// Entry validates the record.
func (r Record) Entry() (Entry, error) {
	return New(r.Title, r.Description, r.Code, r.HubUnits, r.Prerequisites, r.Credits)
}

// ToRecord flattens an entry for storage.
func ToRecord(e Entry) Record {
	var credits *float64
	if e.credits != nil {
		v := *e.credits
		credits = &v
	}
	return Record{
		Title:         e.title,
		Description:   e.description,
		Code:          e.code,
		HubUnits:      append([]string{}, e.hubUnits...),
		Prerequisites: e.prerequisites,
		Credits:       credits,
	}
}
