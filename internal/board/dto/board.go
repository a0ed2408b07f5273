package dto

import (
	boarddomain "mailboard-backend/internal/board/domain"
	"time"
)

type CreateBoardRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	URLSlug     string                   `json:"url_slug"`
	DomainList  string                   `json:"domain_list"`
	Labels      boarddomain.LabelRefList `json:"labels"`
	Keywords    string                   `json:"keywords"`
}

type UpdateBoardRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	DomainList  string                   `json:"domain_list"`
	Labels      boarddomain.LabelRefList `json:"labels"`
	Keywords    string                   `json:"keywords"`
}

type CreateColumnRequest struct {
	Title    string              `json:"title" binding:"required"`
	Type     string              `json:"type"`
	Settings boarddomain.JSONMap `json:"settings"`
}

type UpdateColumnRequest struct {
	Title    string              `json:"title" binding:"required"`
	Settings boarddomain.JSONMap `json:"settings"`
}

// ReassignColumn carries one column's layout in a full-board reassignment.
// ItemIDs is the ordered list of cached email ids assigned to the column.
type ReassignColumn struct {
	ID       string              `json:"id" binding:"required"`
	Title    string              `json:"title"`
	Settings boarddomain.JSONMap `json:"settings"`
	ItemIDs  []string            `json:"item_ids"`
}

type ReassignRequest struct {
	Columns []ReassignColumn `json:"columns" binding:"required"`
}

type AddEmailRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

type EmailsResponse struct {
	Emails       []*boarddomain.CachedEmailView `json:"emails"`
	LastSyncedAt *time.Time                     `json:"last_synced_at,omitempty"`
}

type DomainStatsResponse struct {
	Domains map[string]int `json:"domains"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}
