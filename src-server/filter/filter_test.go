package filter

import (
	"testing"
	"time"

	"dojoreport/src-server/eventbrite"
	"dojoreport/src-server/report"
)

func mayTable(t *testing.T) *report.Table {
	t.Helper()
	event := func(id string, name string, start string) eventbrite.Event {
		return eventbrite.Event{
			ID:    id,
			Name:  eventbrite.TextField{Text: name},
			Start: eventbrite.DateTimes{Local: start, UTC: start},
			End:   eventbrite.DateTimes{Local: start, UTC: start},
		}
	}
	sets := []eventbrite.EventAttendees{
		{
			Event: event("101", "Dojo Gent", "2024-05-01T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{
					ID:      "1",
					Profile: eventbrite.Profile{Gender: "female"},
					Answers: []eventbrite.Answer{
						{Question: "(GSM) in geval van een noodgeval", Answer: "+32 470 11 22 33"},
					},
				},
				{ID: "2", Profile: eventbrite.Profile{Gender: "male"}},
			},
		},
		{
			Event: event("102", "Dojo Leuven", "2024-05-15T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "3", Profile: eventbrite.Profile{Gender: "female"}},
			},
		},
		{
			Event: event("103", "Dojo Brussel", "2024-05-31T21:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "4"},
			},
		},
		{
			Event: event("104", "Dojo Antwerpen", "2024-06-01T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "5"},
			},
		},
	}
	return report.Build(sets)
}

func attendeeIDs(t *report.Table) []string {
	ids := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		ids = append(ids, row.AttendeeID)
	}
	return ids
}

func TestApplyEmptyCriteriaKeepsEveryRow(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered.Rows) != len(table.Rows) {
		t.Fatalf("expected %d rows, got %d", len(table.Rows), len(filtered.Rows))
	}
	for i := range filtered.Rows {
		if filtered.Rows[i] != table.Rows[i] {
			t.Errorf("row %d should be shared, not copied", i)
		}
	}
}

func TestApplyDateRangeInclusiveOnBothEnds(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{
		Start: Day(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		End:   Day(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatal(err)
	}
	ids := attendeeIDs(filtered)
	if len(ids) != 4 {
		t.Fatalf("expected rows 1-4, got %v", ids)
	}
	if ids[0] != "1" || ids[3] != "4" {
		t.Errorf("expected both boundary days in, got %v", ids)
	}
}

func TestApplyEventNames(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{EventNames: []string{"Dojo Leuven", "Dojo Antwerpen"}})
	if err != nil {
		t.Fatal(err)
	}
	ids := attendeeIDs(filtered)
	if len(ids) != 2 || ids[0] != "3" || ids[1] != "5" {
		t.Errorf("expected rows 3 and 5, got %v", ids)
	}
}

func TestApplyEqualsIgnoresCase(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Gender", Op: OpEquals, Value: "FEMALE"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	ids := attendeeIDs(filtered)
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Errorf("expected rows 1 and 3, got %v", ids)
	}
}

func TestApplyContainsIgnoresCase(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Event Name", Op: OpContains, Value: "gent"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	ids := attendeeIDs(filtered)
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("expected the Gent rows, got %v", ids)
	}
}

func TestApplyAbsentSemantics(t *testing.T) {
	table := mayTable(t)

	absent, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Phone Number", Op: OpAbsent}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range absent.Rows {
		if row.AttendeeID == "1" {
			t.Error("the row with a phone number matched the absent condition")
		}
	}
	if len(absent.Rows) != len(table.Rows)-1 {
		t.Errorf("expected everyone but row 1, got %v", attendeeIDs(absent))
	}

	// an absent cell never satisfies a positive comparison, not even
	// against the empty string
	equalsBlank, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Phone Number", Op: OpEquals, Value: ""}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(equalsBlank.Rows) != 0 {
		t.Errorf("expected no rows, got %v", attendeeIDs(equalsBlank))
	}
	containsBlank, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Gender", Op: OpContains, Value: ""}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// contains "" holds for every present cell, absent ones stay out
	if len(containsBlank.Rows) != 3 {
		t.Errorf("expected the 3 rows with a gender, got %v", attendeeIDs(containsBlank))
	}
}

func TestApplyUnknownColumn(t *testing.T) {
	table := mayTable(t)
	if _, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "No Such Column", Op: OpEquals, Value: "x"}},
	}); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
}

func TestApplyKeepsRelativeOrder(t *testing.T) {
	table := mayTable(t)
	filtered, err := Apply(table, Criteria{
		Conditions: []Condition{{Column: "Gender", Op: OpAbsent}},
	})
	if err != nil {
		t.Fatal(err)
	}
	ids := attendeeIDs(filtered)
	if len(ids) != 2 || ids[0] != "4" || ids[1] != "5" {
		t.Errorf("expected rows 4 then 5, got %v", ids)
	}
}

func TestParseOp(t *testing.T) {
	for _, valid := range []string{"equals", "contains", "absent"} {
		if _, err := ParseOp(valid); err != nil {
			t.Errorf("ParseOp(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseOp("regex"); err == nil {
		t.Error("expected an error for an unknown op")
	}
}
