// Package forms validates organizer event drafts before they are submitted.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/go-playground/validator/v10"

	"eventdesk/internal/domain/events"
)

var ErrValidation = errors.New("validation failed")

type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// ValidationError maps a field path (e.g. "ticketTypes[0].price") to a
// human-readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "invalid event: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var validate = validator.New()

// ValidateDraft checks a draft the way the create and edit forms do. On create
// the date may not lie before today, a discount code is required and each
// ticket's remaining count must fit its quantity.
func ValidateDraft(draft events.Draft, now time.Time, mode Mode) error {
	fields := map[string]string{}

	if err := validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("error validating event: %w", err)
		}
		for _, fe := range verrs {
			fields[fieldPath(fe)] = describe(fe)
		}
	}

	if draft.Date.IsZero() {
		fields["date"] = "is required"
	} else if mode == ModeCreate && startOfDay(draft.Date.Time()).Before(startOfDay(now.In(draft.Date.Time().Location()))) {
		fields["date"] = "cannot be before today"
	}

	if len(draft.TicketTypes) == 0 {
		fields["ticketTypes"] = "at least one ticket type is required"
	}
	seenTypes := map[string]bool{}
	for i, t := range draft.TicketTypes {
		if t.Type != "" && seenTypes[t.Type] {
			fields[fmt.Sprintf("ticketTypes[%d].type", i)] = "must be unique"
		}
		seenTypes[t.Type] = true

		if mode == ModeCreate && t.Remaining != nil && (*t.Remaining < 0 || *t.Remaining > t.Quantity) {
			fields[fmt.Sprintf("ticketTypes[%d].remaining", i)] = "must be between 0 and quantity"
		}
	}

	if mode == ModeCreate && len(draft.DiscountCodes) == 0 {
		fields["discountCodes"] = "at least one discount code is required"
	}
	seenCodes := map[string]bool{}
	for i, c := range draft.DiscountCodes {
		if c.Code != "" && seenCodes[c.Code] {
			fields[fmt.Sprintf("discountCodes[%d].code", i)] = "must be unique"
		}
		seenCodes[c.Code] = true

		if c.ExpiryDate.IsZero() {
			fields[fmt.Sprintf("discountCodes[%d].expiryDate", i)] = "is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// PrepareForCreate fills in remaining counts the organizer left empty: a new
// event has sold nothing yet.
func PrepareForCreate(draft events.Draft) events.Draft {
	out := draft
	out.TicketTypes = make([]events.TicketType, len(draft.TicketTypes))
	for i, t := range draft.TicketTypes {
		if t.Remaining == nil {
			t.Remaining = pointer.To(t.Quantity)
		}
		out.TicketTypes[i] = t
	}

	return out
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "Draft.TicketTypes[0].Price"
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}

	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}

	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
