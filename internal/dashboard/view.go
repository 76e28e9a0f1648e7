package dashboard

import (
	"slices"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// View is the immutable render model of the dashboard.
type View struct {
	SubjectID       string                 `json:"subject_id"`
	Status          models.StatusRecord    `json:"status"`
	Indicators      []Indicator            `json:"indicators"`
	Connection      models.ConnectionState `json:"connection"`
	Connected       bool                   `json:"connected"`
	ConnectionLabel string                 `json:"connection_label"`
	LastChange      string                 `json:"last_change,omitempty"`
	Timeline        []Point                `json:"timeline"`
	Summary         *models.Summary        `json:"summary,omitempty"`
}

// Indicator is one status line of the panel.
type Indicator struct {
	Field  models.Field `json:"field"`
	Label  string       `json:"label"`
	Active bool         `json:"active"`
	Text   string       `json:"text"`
}

var labels = map[models.Field]string{
	models.FieldSleep: "Sleeping",
	models.FieldPhone: "Phone Usage",
	models.FieldAway:  "Away",
}

// Compose builds the View for the given inputs. It has no side effects.
func Compose(rec models.StatusRecord, conn models.ConnectionState, points []Point, summary *models.Summary) View {
	v := View{
		Status:     rec,
		Connection: conn,
		Connected:  conn == models.Connected,
		Timeline:   slices.Clone(points),
	}
	if v.Timeline == nil {
		v.Timeline = []Point{}
	}
	if v.Connected {
		v.ConnectionLabel = "connected"
	} else {
		v.ConnectionLabel = "not connected"
	}

	for _, f := range models.Fields {
		active := rec.Get(f)
		text := "No"
		if active {
			text = "Yes"
		}
		v.Indicators = append(v.Indicators, Indicator{Field: f, Label: labels[f], Active: active, Text: text})
	}

	if rec.LastChangedField != "" {
		v.LastChange = string(rec.LastChangedField) + " at " + rec.LastChangedAt.Format(time.TimeOnly)
	}
	if summary != nil {
		s := *summary
		v.Summary = &s
	}
	return v
}
