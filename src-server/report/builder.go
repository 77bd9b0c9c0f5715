package report

import (
	"sort"
	"strconv"

	"dojoreport/src-server/eventbrite"
)

// Build flattens a snapshot into the report table: one row per attendee
// record, every row shaped by one schema discovered over the whole
// snapshot. Rows come out ordered by event start, attendees staying in
// the order they were fetched.
func Build(sets []eventbrite.EventAttendees) *Table {
	schema := DiscoverSchema(sets)
	table := &Table{
		Columns: schema.Columns,
		Rows:    make([]*Row, 0),
	}
	for _, set := range sets {
		for i := range set.Attendees {
			table.Rows = append(table.Rows, buildRow(schema, &set.Event, &set.Attendees[i]))
		}
	}
	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].EventStart.Before(table.Rows[j].EventStart)
	})
	return table
}

func buildRow(schema *Schema, event *eventbrite.Event, attendee *eventbrite.Attendee) *Row {
	values := make([]Value, len(schema.Columns))
	set := func(column string, text string) {
		if idx, ok := schema.ColumnIndex(column); ok {
			values[idx] = Text(text)
		}
	}
	setIfNotBlank := func(column string, text string) {
		if text != "" {
			set(column, text)
		}
	}

	setIfNotBlank("Event ID", event.ID)
	setIfNotBlank("Event Name", event.Name.Text)
	setIfNotBlank("Start Date", event.Start.Local)
	setIfNotBlank("End Date", event.End.Local)
	if event.Venue != nil {
		venue := event.Venue.Name
		if display := event.Venue.Address.LocalizedAddressDisplay; display != "" {
			if venue != "" {
				venue += ", "
			}
			venue += display
		}
		setIfNotBlank("Venue", venue)
	}
	setIfNotBlank("Event URL", event.URL)
	if event.Capacity != nil {
		set("Capacity", strconv.Itoa(*event.Capacity))
	}
	setIfNotBlank("Event Status", event.Status)

	setIfNotBlank("Attendee ID", attendee.ID)
	setIfNotBlank("Order ID", attendee.OrderID)
	setIfNotBlank("Order Date", attendee.Changed)
	setIfNotBlank("Ticket Type", attendee.TicketClassName)
	if attendee.Quantity != nil {
		set("Quantity", strconv.Itoa(*attendee.Quantity))
	}
	setIfNotBlank("Attendee Status", attendee.Status)
	setIfNotBlank("Last Name", attendee.Profile.LastName)
	setIfNotBlank("First Name", attendee.Profile.FirstName)
	setIfNotBlank("Gender", attendee.Profile.Gender)
	setIfNotBlank("Email", attendee.Profile.Email)
	if home := attendee.Profile.Addresses.Home; home != nil {
		setIfNotBlank("Address", home.Address1)
		setIfNotBlank("City", home.City)
		setIfNotBlank("Country", home.Country)
	}

	// answers win for the columns they feed; postal code and phone
	// number each have a profile fallback when no answer fills them
	for _, answer := range attendee.Answers {
		if answer.Answer == "" {
			continue
		}
		if column := schema.ColumnFor(answer.Question); column != "" {
			set(column, answer.Answer)
		}
	}
	if idx, ok := schema.ColumnIndex("Postal Code"); ok && !values[idx].Present {
		if home := attendee.Profile.Addresses.Home; home != nil {
			setIfNotBlank("Postal Code", home.PostalCode)
		}
	}
	if idx, ok := schema.ColumnIndex("Phone Number"); ok && !values[idx].Present {
		setIfNotBlank("Phone Number", attendee.Profile.CellPhone)
	}

	row := &Row{
		EventID:    event.ID,
		AttendeeID: attendee.ID,
		EventName:  event.Name.Text,
		Values:     values,
	}
	if start, err := event.Start.TimeUTC(); err == nil {
		row.EventStart = start
	}
	if end, err := event.End.TimeUTC(); err == nil {
		row.EventEnd = end
	}
	return row
}
