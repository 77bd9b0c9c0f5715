package report

import (
	"testing"

	"dojoreport/src-server/eventbrite"
)

func intPtr(v int) *int {
	return &v
}

func testEvent(id string, name string, startUTC string) eventbrite.Event {
	return eventbrite.Event{
		ID:   id,
		Name: eventbrite.TextField{Text: name},
		Start: eventbrite.DateTimes{
			Timezone: "Europe/Brussels",
			Local:    startUTC,
			UTC:      startUTC,
		},
		End: eventbrite.DateTimes{
			Timezone: "Europe/Brussels",
			Local:    startUTC,
			UTC:      startUTC,
		},
		Status: "completed",
	}
}

func TestBuildOneRowPerAttendee(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "1", Profile: eventbrite.Profile{FirstName: "Ada"}},
				{ID: "2", Profile: eventbrite.Profile{FirstName: "Bram"}},
			},
		},
		{
			Event: testEvent("102", "Dojo Leuven", "2024-05-18T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "3", Profile: eventbrite.Profile{FirstName: "Cleo"}},
			},
		},
	}

	sets[0].Event.Capacity = intPtr(20)

	table := Build(sets)
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	for _, row := range table.Rows {
		if len(row.Values) != len(table.Columns) {
			t.Errorf("row %s has %d cells for %d columns", row.AttendeeID, len(row.Values), len(table.Columns))
		}
	}
	if table.Rows[0].EventID != "101" || table.Rows[2].EventID != "102" {
		t.Errorf("rows grouped wrong: %s first, %s last", table.Rows[0].EventID, table.Rows[2].EventID)
	}
	if got := table.Cell(table.Rows[0], "Capacity"); !got.Present || got.Text != "20" {
		t.Errorf("expected capacity 20, got %+v", got)
	}
	if got := table.Cell(table.Rows[2], "Capacity"); got.Present {
		t.Errorf("event without capacity should have an absent cell, got %q", got.Text)
	}
}

func TestBuildPhonePresentAndAbsent(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{
					ID: "1",
					Answers: []eventbrite.Answer{
						{Question: "(GSM) in geval van een noodgeval", Answer: "+32 470 11 22 33"},
					},
				},
				{ID: "2"},
			},
		},
	}

	table := Build(sets)
	withPhone := table.Cell(table.Rows[0], "Phone Number")
	if !withPhone.Present || withPhone.Text != "+32 470 11 22 33" {
		t.Errorf("expected the answered phone number, got %+v", withPhone)
	}
	withoutPhone := table.Cell(table.Rows[1], "Phone Number")
	if withoutPhone.Present {
		t.Errorf("expected an absent phone number, got %q", withoutPhone.Text)
	}
	if withoutPhone.String() != AbsentMarker {
		t.Errorf("absent cell should render %q, got %q", AbsentMarker, withoutPhone.String())
	}
}

func TestBuildCanonicalAnswers(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{
					ID: "1",
					Profile: eventbrite.Profile{
						Addresses: eventbrite.Addresses{
							Home: &eventbrite.Address{PostalCode: "9000"},
						},
					},
					Answers: []eventbrite.Answer{
						{Question: "Geboortedatum", Answer: "01-02-2012"},
						{Question: "Âge", Answer: "12"},
						{Question: "Code postal", Answer: "1000"},
						{Question: "Voornaam (ouder/voogd)", Answer: "Els"},
						{Question: "Achternaam (ouder/voogd)", Answer: "Peeters"},
					},
				},
			},
		},
	}

	table := Build(sets)
	row := table.Rows[0]
	expectations := map[string]string{
		"Birth Date":                 "01-02-2012",
		"Age":                        "12",
		"Postal Code":                "1000",
		"First Name Parent/Guardian": "Els",
		"Last Name Parent/Guardian":  "Peeters",
	}
	for column, want := range expectations {
		got := table.Cell(row, column)
		if !got.Present || got.Text != want {
			t.Errorf("column %q: expected %q, got %+v", column, want, got)
		}
	}
}

func TestBuildPostalCodeFallsBackToHomeAddress(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{
					ID: "1",
					Profile: eventbrite.Profile{
						Addresses: eventbrite.Addresses{
							Home: &eventbrite.Address{City: "Gent", PostalCode: "9000"},
						},
					},
				},
			},
		},
	}

	table := Build(sets)
	postal := table.Cell(table.Rows[0], "Postal Code")
	if !postal.Present || postal.Text != "9000" {
		t.Errorf("expected the home postal code, got %+v", postal)
	}
}

func TestBuildDiscoversUnknownQuestions(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{
					ID: "1",
					Answers: []eventbrite.Answer{
						{Question: "T-shirt maat", Answer: "128"},
					},
				},
			},
		},
		{
			Event: testEvent("102", "Dojo Leuven", "2024-05-18T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "2"},
			},
		},
	}

	table := Build(sets)
	idx, ok := table.ColumnIndex("T-Shirt Maat")
	if !ok {
		t.Fatalf("expected a discovered column, have %v", table.Columns)
	}
	if idx < len(fixedColumns) {
		t.Errorf("discovered column should come after the fixed ones, got index %d", idx)
	}
	if got := table.Cell(table.Rows[0], "T-Shirt Maat"); !got.Present || got.Text != "128" {
		t.Errorf("expected the answer in the discovered column, got %+v", got)
	}
	if got := table.Cell(table.Rows[1], "T-Shirt Maat"); got.Present {
		t.Errorf("attendee of the other event should have an absent cell, got %q", got.Text)
	}
}

func TestBuildOrdersRowsByEventStart(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("102", "Dojo Leuven", "2024-05-18T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "3"},
			},
		},
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "1"},
				{ID: "2"},
			},
		},
	}

	table := Build(sets)
	order := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		order = append(order, row.AttendeeID)
	}
	if order[0] != "1" || order[1] != "2" || order[2] != "3" {
		t.Errorf("unexpected row order %v", order)
	}
}

func TestDistribution(t *testing.T) {
	sets := []eventbrite.EventAttendees{
		{
			Event: testEvent("101", "Dojo Gent", "2024-05-04T09:00:00Z"),
			Attendees: []eventbrite.Attendee{
				{ID: "1", Answers: []eventbrite.Answer{{Question: "Age", Answer: "10"}}},
				{ID: "2", Answers: []eventbrite.Answer{{Question: "Age", Answer: "10"}}},
				{ID: "3", Answers: []eventbrite.Answer{{Question: "Age", Answer: "12"}}},
				{ID: "4"},
			},
		},
	}

	table := Build(sets)
	rows := Distribution(table, "Age", 15)
	if len(rows) != 2 {
		t.Fatalf("expected 2 distinct ages, got %d", len(rows))
	}
	if rows[0].Value != "10" || rows[0].Count != 2 {
		t.Errorf("expected age 10 twice on top, got %+v", rows[0])
	}
	// the attendee without an age stays out of the denominator
	if rows[0].Percent < 66.6 || rows[0].Percent > 66.7 {
		t.Errorf("expected about 66.7%%, got %f", rows[0].Percent)
	}

	if capped := Distribution(table, "Age", 1); len(capped) != 1 {
		t.Errorf("expected the cap to hold, got %d rows", len(capped))
	}
	if missing := Distribution(table, "No Such Column", 15); missing != nil {
		t.Errorf("expected nil for an unknown column, got %v", missing)
	}
}

func TestTitleColumn(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"T-shirt maat", "T-Shirt Maat"},
		{"  wie   haalt je op?  ", "Wie Haalt Je Op?"},
		{"Allergies.", "Allergies"},
	}
	for _, c := range cases {
		if got := TitleColumn(c.in); got != c.want {
			t.Errorf("TitleColumn(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
