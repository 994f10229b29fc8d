// Package filters turns loosely typed list filters (query strings or JSON
// bodies) into repository filter structs. Invalid values are dropped rather
// than rejected.
package filters

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/crm-api/internal/constants"
	"github.com/yukikurage/crm-api/internal/models"
	"github.com/yukikurage/crm-api/internal/repository"
)

const dateLayout = "2006-01-02"

// Values holds raw filter input keyed by snake_case or camelCase names
type Values map[string]any

// FromQuery converts a query string. Repeated keys become lists.
func FromQuery(q url.Values) Values {
	v := make(Values, len(q))
	for key, vals := range q {
		switch len(vals) {
		case 0:
		case 1:
			v[key] = vals[0]
		default:
			list := make([]any, len(vals))
			for i, s := range vals {
				list[i] = s
			}
			v[key] = list
		}
	}
	return v
}

// camel converts snake_case to camelCase, e.g. "lead_id" -> "leadId"
func camel(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func (v Values) lookup(key string) (any, bool) {
	if raw, ok := v[key]; ok && raw != nil {
		return raw, true
	}
	if raw, ok := v[camel(key)]; ok && raw != nil {
		return raw, true
	}
	return nil, false
}

// String returns the trimmed string value of key
func (v Values) String(key string) string {
	raw, ok := v.lookup(key)
	if !ok {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// Strings returns a list value. A single string is split on commas.
func (v Values) Strings(key string) []string {
	raw, ok := v.lookup(key)
	if !ok {
		return nil
	}

	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		for _, s := range val {
			items = append(items, strings.Split(s, ",")...)
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				items = append(items, strings.Split(s, ",")...)
			}
		}
	}

	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Int returns key as a non-negative integer. Values above MaxInt32 are
// clamped to it.
func (v Values) Int(key string) *int {
	n, ok := v.integer(key)
	if !ok {
		return nil
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	i := int(n)
	return &i
}

// Uint returns key as an unsigned integer
func (v Values) Uint(key string) *uint64 {
	n, ok := v.integer(key)
	if !ok {
		return nil
	}
	return &n
}

func (v Values) integer(key string) (uint64, bool) {
	raw, ok := v.lookup(key)
	if !ok {
		return 0, false
	}

	switch val := raw.(type) {
	case int:
		if val >= 0 {
			return uint64(val), true
		}
	case int64:
		if val >= 0 {
			return uint64(val), true
		}
	case uint64:
		return val, true
	case float64:
		if val >= 0 && val == math.Trunc(val) {
			if val >= math.MaxUint64 {
				return math.MaxUint64, true
			}
			return uint64(val), true
		}
	case json.Number:
		return parseDigits(val.String())
	case string:
		return parseDigits(val)
	}
	return 0, false
}

// parseDigits parses an unsigned decimal. Out of range values saturate at
// MaxUint64.
func parseDigits(s string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// malformed reports whether key is supplied with a non-blank value that is
// not an unsigned integer.
func (v Values) malformed(key string) bool {
	raw, ok := v.lookup(key)
	if !ok {
		return false
	}
	if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	_, parsed := v.integer(key)
	return !parsed
}

// Bool returns key as a boolean
func (v Values) Bool(key string) *bool {
	raw, ok := v.lookup(key)
	if !ok {
		return nil
	}

	switch val := raw.(type) {
	case bool:
		return &val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return &b
		}
	}
	return nil
}

// Time returns key as a time. RFC3339 and date-only values are accepted; a
// date-only value moves to the last instant of the day when endOfDay is set.
func (v Values) Time(key string, endOfDay bool) *time.Time {
	raw, ok := v.lookup(key)
	if !ok {
		return nil
	}

	switch val := raw.(type) {
	case time.Time:
		return &val
	case string:
		s := strings.TrimSpace(val)
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if t, err := time.Parse(dateLayout, s); err == nil {
			if endOfDay {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			return &t
		}
	}
	return nil
}

// window returns limit and offset. When a page number is supplied the
// window is page based and a limit outside MinPageSize..MaxPageSize falls
// back to DefaultPageSize. Otherwise limit and offset are taken as given.
func (v Values) window() (*int, *int) {
	limit, offset := v.Int("limit"), v.Int("offset")

	page := v.Int("page")
	if page == nil || offset != nil {
		return limit, offset
	}

	size := constants.DefaultPageSize
	if limit != nil && *limit >= constants.MinPageSize && *limit <= constants.MaxPageSize {
		size = *limit
	}
	p := *page
	if p < 1 {
		p = 1
	}
	start := (p - 1) * size
	return &size, &start
}

// Lead builds a lead list filter
func Lead(v Values) repository.LeadFilter {
	f := repository.LeadFilter{
		AssignedToUserID: v.Uint("assigned_to_user_id"),
		CreatedByUserID:  v.Uint("created_by_user_id"),
		Search:           v.String("search"),
		SortBy:           v.String("sort_by"),
		SortOrder:        v.String("sort_order"),
	}
	f.Limit, f.Offset = v.window()
	for _, s := range v.Strings("status") {
		f.Statuses = append(f.Statuses, models.LeadStatus(s))
	}
	// A creator that is present but not an ID matches no leads
	f.MatchNone = v.malformed("created_by_user_id")
	return f
}

// Call builds a call list filter
func Call(v Values) repository.CallFilter {
	f := repository.CallFilter{
		LeadID:    v.Uint("lead_id"),
		UserID:    v.Uint("user_id"),
		StartDate: v.Time("start_date", false),
		EndDate:   v.Time("end_date", true),
	}
	f.Limit, f.Offset = v.window()
	return f
}

// ScheduledCall builds a scheduled call list filter
func ScheduledCall(v Values) repository.ScheduledCallFilter {
	f := repository.ScheduledCallFilter{
		LeadID:           v.Uint("lead_id"),
		AssignedCallerID: v.Uint("assigned_caller_id"),
		StartDate:        v.Time("start_date", false),
		EndDate:          v.Time("end_date", true),
	}
	f.Limit, f.Offset = v.window()
	if s := v.String("status"); s != "" {
		status := models.ScheduledCallStatus(s)
		f.Status = &status
	}
	return f
}

// Timesheet builds a timesheet list filter
func Timesheet(v Values) repository.TimesheetFilter {
	f := repository.TimesheetFilter{
		LeadID:    v.Uint("lead_id"),
		UserID:    v.Uint("user_id"),
		Approved:  v.Bool("approved"),
		StartDate: v.Time("start_date", false),
		EndDate:   v.Time("end_date", true),
	}
	f.Limit, f.Offset = v.window()
	return f
}

// Activity builds an activity list filter
func Activity(v Values) repository.ActivityFilter {
	f := repository.ActivityFilter{
		UserID:   v.Uint("user_id"),
		TargetID: v.Uint("target_id"),
	}
	f.Limit, f.Offset = v.window()
	if s := v.String("action_type"); s != "" {
		action := models.ActionType(s)
		f.ActionType = &action
	}
	if s := v.String("target_type"); s != "" {
		target := models.TargetType(s)
		f.TargetType = &target
	}
	return f
}

// TeamMember builds a team member list filter
func TeamMember(v Values) repository.TeamMemberFilter {
	var f repository.TeamMemberFilter
	if s := v.String("role"); s != "" {
		role := models.TeamRole(s)
		f.Role = &role
	}
	if s := v.String("status"); s != "" {
		status := models.TeamMemberStatus(s)
		f.Status = &status
	}
	return f
}
