package eventbrite

import "time"

// TextField is Eventbrite's rich-text pair. Only the plain text part is
// ever shown.
type TextField struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// DateTimes is the start/end triple Eventbrite attaches to events.
type DateTimes struct {
	Timezone string `json:"timezone"`
	Local    string `json:"local"`
	UTC      string `json:"utc"`
}

// TimeUTC parses the UTC part of the triple.
func (d DateTimes) TimeUTC() (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z", d.UTC)
}

// User is the owner of an API token.
type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Emails []Email `json:"emails"`
}

type Email struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

// PrimaryEmail returns the address flagged primary, or the first one.
func (u *User) PrimaryEmail() string {
	for _, email := range u.Emails {
		if email.Primary {
			return email.Email
		}
	}
	if len(u.Emails) > 0 {
		return u.Emails[0].Email
	}
	return ""
}

type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Venue struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Address VenueAddress `json:"address"`
}

type VenueAddress struct {
	Address1                string `json:"address_1"`
	City                    string `json:"city"`
	PostalCode              string `json:"postal_code"`
	Country                 string `json:"country"`
	LocalizedAddressDisplay string `json:"localized_address_display"`
}

// Event as returned by /v3/organizations/{id}/events/ with the venue
// expansion. Capacity is a pointer because Eventbrite omits it on
// events without one.
type Event struct {
	ID          string    `json:"id"`
	Name        TextField `json:"name"`
	Description TextField `json:"description"`
	URL         string    `json:"url"`
	Created     string    `json:"created"`
	Changed     string    `json:"changed"`
	Published   string    `json:"published"`
	Status      string    `json:"status"`
	Capacity    *int      `json:"capacity"`
	Start       DateTimes `json:"start"`
	End         DateTimes `json:"end"`
	Venue       *Venue    `json:"venue"`
}

// Attendee as returned by /v3/events/{id}/attendees/. One record per
// registered person, not per order.
type Attendee struct {
	ID              string   `json:"id"`
	EventID         string   `json:"event_id"`
	OrderID         string   `json:"order_id"`
	Created         string   `json:"created"`
	Changed         string   `json:"changed"`
	TicketClassName string   `json:"ticket_class_name"`
	Quantity        *int     `json:"quantity"`
	Status          string   `json:"status"`
	Cancelled       bool     `json:"cancelled"`
	Refunded        bool     `json:"refunded"`
	Profile         Profile  `json:"profile"`
	Answers         []Answer `json:"answers"`
}

type Profile struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	CellPhone string    `json:"cell_phone"`
	Addresses Addresses `json:"addresses"`
}

type Addresses struct {
	Home *Address `json:"home"`
}

type Address struct {
	Address1   string `json:"address_1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Answer is one registration-form question with what the attendee
// typed. The answer key is absent when the question was left blank.
type Answer struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// EventAttendees pairs one event with every attendee record on it.
type EventAttendees struct {
	Event     Event
	Attendees []Attendee
}

type pagination struct {
	ObjectCount  int    `json:"object_count"`
	PageNumber   int    `json:"page_number"`
	PageSize     int    `json:"page_size"`
	PageCount    int    `json:"page_count"`
	Continuation string `json:"continuation"`
	HasMoreItems bool   `json:"has_more_items"`
}
