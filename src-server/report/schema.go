package report

import (
	"strings"

	"dojoreport/src-server/eventbrite"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fixedColumns is the part of the report every build has, in render
// order: the event block first, then the attendee block.
var fixedColumns = []string{
	"Event ID",
	"Event Name",
	"Start Date",
	"End Date",
	"Venue",
	"Event URL",
	"Capacity",
	"Event Status",
	"Attendee ID",
	"Order ID",
	"Order Date",
	"Ticket Type",
	"Quantity",
	"Attendee Status",
	"Last Name",
	"First Name",
	"Gender",
	"Age",
	"Birth Date",
	"Email",
	"Address",
	"City",
	"Postal Code",
	"Country",
	"Last Name Parent/Guardian",
	"First Name Parent/Guardian",
	"Phone Number",
}

// canonicalAnswerColumns folds the registration-form question wordings
// the dojos have used over the years, across languages, into one column
// each. Matching is exact, the forms are stable.
var canonicalAnswerColumns = func() map[string]string {
	byColumn := map[string][]string{
		"Postal Code": {
			"Code postal",
			"Postcode",
			"Code postal/Postcode/Postal Code",
		},
		"Birth Date": {
			"geboortedatum (dag-maand-jaar)",
			"Geboortedatum",
			"Geboortejaar",
		},
		"Age": {
			"Âge",
			"Age",
			"Leeftijd",
			"Age/Leeftijd",
			"Leeftijd/Age",
			"Leeftijd deelnemer",
			"Voornaam, geslacht en leeftijd van iedereen die je inschrijft",
		},
		"Phone Number": {
			"(GSM) in geval van een noodgeval",
			"Coordonnées (en cas d'urgence uniquement)/Contact informatie (in geval van nood)/Contact information (in case of an emergency)",
			"Coordonnées (en cas d'urgence uniquement)",
			"Contact informatie (in geval van nood)",
			"Voogd: GSM nummer",
			"Op welk telefoonnummer kunnen wij u bereiken tijdens de dojo?",
		},
		"First Name Parent/Guardian": {
			"Prénom (parent/tuteur)",
			"Voornaam (ouder/voogd)",
			"Voornaam (Ouder / Voogd)",
			"Voornaam en Achternaam(ouder/voogd)/Prénom et  Nom de famille(parent/tuteur)/First name and Last name(parent/guardian)",
			"Prénom (parent/tuteur·rice)",
			"Voornaam (ouder/voogd)/Prénom (parent/tuteur)/First name (parent/guardian)",
			"Prénom (parent/tuteur)/Voornaam (ouder/voogd)/First name (parent/guardian)",
		},
		"Last Name Parent/Guardian": {
			"Nom de famille (parent/tuteur·rice)",
			"Naam en voornaam (ouder/voogd)",
			"Nom de famille (parent/tuteur)/Achternaam (ouder/voogd)/Surname (parent/guardian)",
			"Achternaam (ouder/voogd)",
			"Achternaam (ouder / voogd)",
			"Achternaam (Ouder / Voogd)",
			"Achternaam (ouder/voogd)/Nom de famille (parent/tuteur)/Surname (parent/guardian)",
			"Naam van ouder/voogd",
			"Nom de famille (parent/tuteur)",
			"Naam ouder",
			"Voogd: Voornaam en familienaam",
			"Naam ouder:",
		},
	}
	out := make(map[string]string)
	for column, questions := range byColumn {
		for _, question := range questions {
			out[question] = column
		}
	}
	return out
}()

// Schema is the resolved column layout for one build: the fixed columns
// plus a column per registration-form question nobody mapped yet,
// discovered in first-seen order.
type Schema struct {
	Columns []string
	index   map[string]int
	answers map[string]string
}

// DiscoverSchema walks every answer in the snapshot once and resolves
// where each question lands. The same schema then applies to every row,
// so two attendees of different events always line up.
func DiscoverSchema(sets []eventbrite.EventAttendees) *Schema {
	schema := &Schema{
		Columns: append([]string{}, fixedColumns...),
		index:   make(map[string]int),
		answers: make(map[string]string),
	}
	for i, column := range schema.Columns {
		schema.index[column] = i
	}

	for _, set := range sets {
		for _, attendee := range set.Attendees {
			for _, answer := range attendee.Answers {
				if answer.Question == "" {
					continue
				}
				if _, ok := schema.answers[answer.Question]; ok {
					continue
				}
				if column, ok := canonicalAnswerColumns[answer.Question]; ok {
					schema.answers[answer.Question] = column
					continue
				}
				column := TitleColumn(answer.Question)
				if column == "" {
					continue
				}
				if _, ok := schema.index[column]; !ok {
					schema.index[column] = len(schema.Columns)
					schema.Columns = append(schema.Columns, column)
				}
				schema.answers[answer.Question] = column
			}
		}
	}
	return schema
}

// ColumnFor resolves a question to its column name, "" when the
// question never made it into the schema.
func (s *Schema) ColumnFor(question string) string {
	return s.answers[question]
}

// ColumnIndex finds a column by its exact name.
func (s *Schema) ColumnIndex(column string) (int, bool) {
	idx, ok := s.index[column]
	return idx, ok
}

// TitleColumn turns a raw question into a column title: trims, squeezes
// runs of whitespace, title-cases, drops a trailing period.
func TitleColumn(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = cases.Title(language.English).String(s)
	s = strings.TrimSuffix(s, ".")
	return s
}
