package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type BulkAction string

const (
	ActionDelete     BulkAction = "delete"
	ActionActivate   BulkAction = "activate"
	ActionDeactivate BulkAction = "deactivate"
	ActionMarkRead   BulkAction = "mark-read"
)

// BulkActions is the closed set of actions the dispatcher understands.
var BulkActions = []BulkAction{ActionDelete, ActionActivate, ActionDeactivate, ActionMarkRead}

func ParseBulkAction(raw string) (BulkAction, error) {
	action := BulkAction(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range BulkActions {
		if action == known {
			return action, nil
		}
	}
	return "", errs.NewValidationError(map[string]string{"action": fmt.Sprintf("unknown action %q", raw)})
}

// MessageEntity is the entity type name used for contact messages in bulk requests.
const MessageEntity = "message"

// BulkResult reports how many rows actually changed. Unsupported combinations
// are reported, not failed.
type BulkResult struct {
	Action     BulkAction       `json:"action"`
	EntityType string           `json:"entity_type"`
	Supported  bool             `json:"supported"`
	Count      int              `json:"count"`
	Errors     []errs.ItemError `json:"errors,omitempty"`
}

// Capability is one supported action/entity pair.
type Capability struct {
	Action     BulkAction `json:"action"`
	EntityType string     `json:"entity_type"`
}

// rowHandler applies an action to one row and reports whether it changed anything.
// A missing row is not an error.
type rowHandler func(ctx context.Context, id uuid.UUID) (bool, error)

type capabilityKey struct {
	action BulkAction
	entity string
}

// Dispatcher runs one action over many ids. Each row commits on its own.
type Dispatcher struct {
	handlers map[capabilityKey]rowHandler
	now      func() time.Time
}

// NewDispatcher builds the capability table from the registered stores and the message repo.
func NewDispatcher(db database.Database) *Dispatcher {
	d := &Dispatcher{handlers: map[capabilityKey]rowHandler{}, now: time.Now}

	for _, store := range db.Stores() {
		schema := store.Schema()
		d.handlers[capabilityKey{ActionDelete, schema.Name}] = store.DeleteIfExists
		if schema.HasActive {
			d.handlers[capabilityKey{ActionActivate, schema.Name}] = func(ctx context.Context, id uuid.UUID) (bool, error) {
				return store.SetActive(ctx, id, true)
			}
			d.handlers[capabilityKey{ActionDeactivate, schema.Name}] = func(ctx context.Context, id uuid.UUID) (bool, error) {
				return store.SetActive(ctx, id, false)
			}
		}
	}

	messages := db.MessageRepo()
	d.handlers[capabilityKey{ActionDelete, MessageEntity}] = messages.Delete
	d.handlers[capabilityKey{ActionMarkRead, MessageEntity}] = func(ctx context.Context, id uuid.UUID) (bool, error) {
		_, changed, err := messages.Transition(ctx, id, func(msg *models.ContactMessage) (bool, error) {
			return msg.MarkRead(d.now()), nil
		})
		if errs.IsNotFound(err) {
			return false, nil
		}
		return changed, err
	}
	return d
}

// Supports reports whether action can be applied to entityType.
func (d *Dispatcher) Supports(action BulkAction, entityType string) bool {
	_, ok := d.handlers[capabilityKey{action, entityType}]
	return ok
}

// Capabilities lists every supported pair, sorted by entity then action.
func (d *Dispatcher) Capabilities() []Capability {
	capabilities := make([]Capability, 0, len(d.handlers))
	for key := range d.handlers {
		capabilities = append(capabilities, Capability{Action: key.action, EntityType: key.entity})
	}
	sort.Slice(capabilities, func(i, j int) bool {
		if capabilities[i].EntityType != capabilities[j].EntityType {
			return capabilities[i].EntityType < capabilities[j].EntityType
		}
		return capabilities[i].Action < capabilities[j].Action
	})
	return capabilities
}

// Execute applies action to every id of entityType. Only an unknown action or a
// cancelled context is returned as an error; per-id problems land in BulkResult.Errors.
func (d *Dispatcher) Execute(ctx context.Context, action, entityType string, ids []string, actor string) (BulkResult, error) {
	parsed, err := ParseBulkAction(action)
	if err != nil {
		return BulkResult{}, err
	}
	entityType = strings.ToLower(strings.TrimSpace(entityType))
	if schema, ok := models.LookupSchema(entityType); ok {
		entityType = schema.Name
	}

	result := BulkResult{Action: parsed, EntityType: entityType}
	logger := log.With().
		Str("action", string(parsed)).
		Str("entityType", entityType).
		Str("actor", actor).
		Int("ids", len(ids)).
		Logger()

	handler, ok := d.handlers[capabilityKey{parsed, entityType}]
	if !ok {
		logger.Info().Msg("Bulk action not supported for entity type")
		return result, nil
	}
	result.Supported = true

	seen := make(map[uuid.UUID]bool, len(ids))
	for i, raw := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			result.Errors = append(result.Errors, errs.ItemError{Row: i + 1, ID: raw, Reason: "invalid id"})
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		changed, err := handler(ctx, id)
		if err != nil {
			logger.Error().Err(err).Str("id", raw).Msg("Bulk action failed for row")
			result.Errors = append(result.Errors, errs.ItemError{Row: i + 1, ID: raw, Reason: err.Error()})
			continue
		}
		if changed {
			result.Count++
		}
	}

	logger.Info().Int("count", result.Count).Int("failed", len(result.Errors)).Msg("Bulk action completed")
	return result, nil
}
