package repository

import (
	"context"
	"log"
	"strings"

	"github.com/yukikurage/crm-api/internal/metrics"
	"github.com/yukikurage/crm-api/internal/models"
)

const defaultLeadSortColumn = "created_at"

// leadSortColumns is the allow-list of sortable lead columns, keyed by every
// accepted spelling of the sort_by value.
var leadSortColumns = map[string]string{
	"created_at":       "created_at",
	"createdAt":        "created_at",
	"updated_at":       "updated_at",
	"updatedAt":        "updated_at",
	"lead_id":          "lead_id",
	"leadId":           "lead_id",
	"status":           "status",
	"owner_name":       "owner_name",
	"ownerName":        "owner_name",
	"property_address": "property_address",
	"propertyAddress":  "property_address",
}

// leadSearchColumns are OR-matched by the search filter
var leadSearchColumns = []string{"property_address", "owner_name", "owner_phone", "owner_email"}

// leadQuery is a composed lead list plan. When empty is set the result is
// known to be empty and no lead query should be issued.
type leadQuery struct {
	where []scope
	order scope
	page  scope
	empty bool
}

// composeLeadQuery turns a filter into AND-combined predicates, an
// allow-listed sort and optional pagination.
func (r *GormLeadRepository) composeLeadQuery(ctx context.Context, filter LeadFilter) leadQuery {
	q := leadQuery{
		order: orderBy(resolveLeadSort(filter.SortBy, filter.SortOrder)),
		page:  paginate(filter.Limit, filter.Offset),
	}

	if filter.MatchNone {
		q.empty = true
		return q
	}

	if len(filter.Statuses) > 0 {
		statuses := validLeadStatuses(filter.Statuses)
		if len(statuses) == 0 {
			q.empty = true
			return q
		}
		q.where = append(q.where, whereIn("status", statuses))
	}

	if filter.AssignedToUserID != nil {
		q.where = append(q.where, whereEq("assigned_to_user_id", *filter.AssignedToUserID))
	}

	if filter.CreatedByUserID != nil {
		ids, err := r.activities.LeadIDsCreatedBy(ctx, *filter.CreatedByUserID)
		switch {
		case err != nil:
			log.Printf("lead list: created_by_user_id=%d lookup failed, filter dropped: %v", *filter.CreatedByUserID, err)
			metrics.FilterDegraded.WithLabelValues("created_by_user_id").Inc()
		case len(ids) == 0:
			q.empty = true
			return q
		default:
			q.where = append(q.where, whereIn("id", ids))
		}
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		q.where = append(q.where, containsAny(leadSearchColumns, term))
	}

	return q
}

// resolveLeadSort maps sort_by through the allow-list, substituting the
// default column for anything unknown. Order defaults to descending.
func resolveLeadSort(sortBy, sortOrder string) (string, bool) {
	column, ok := leadSortColumns[strings.TrimSpace(sortBy)]
	if !ok {
		column = defaultLeadSortColumn
	}
	desc := !strings.EqualFold(strings.TrimSpace(sortOrder), "asc")
	return column, desc
}

// validLeadStatuses drops unknown and duplicate statuses
func validLeadStatuses(statuses []models.LeadStatus) []models.LeadStatus {
	seen := make(map[models.LeadStatus]struct{}, len(statuses))
	valid := make([]models.LeadStatus, 0, len(statuses))
	for _, s := range statuses {
		if !s.Valid() {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		valid = append(valid, s)
	}
	return valid
}
