// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package permission decides what an actor may do with a content node.
//
// A decision combines three layers, each able to deny:
//
//  1. the role permissions from the configuration ("pages.sort", "files.*", "*"),
//  2. the options of the node's blueprint (a bool or a per-role map),
//  3. fixed model rules: drafts cannot be sorted, the home and error pages
//     keep their slug, and the error page keeps its status.
package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Actions checked by the section pipeline.
const (
	ActionRead         = "read"
	ActionSort         = "sort"
	ActionChangeSlug   = "changeSlug"
	ActionChangeStatus = "changeStatus"
	ActionChangeTitle  = "changeTitle"
	ActionCreate       = "create"
)

// Blueprints loads the blueprint that carries a node's options.
type Blueprints interface {
	Load(kind blueprint.Kind, name string) (*blueprint.Blueprint, error)
}

// Evaluator implements the permission capability of the section pipeline.
type Evaluator struct {
	roles      map[string]map[string]bool
	blueprints Blueprints
	homeID     string
	errorID    string
}

// NewEvaluator builds an evaluator from role permissions and the IDs of the
// home and error pages. blueprints may be nil to skip blueprint options.
// Role names and permission keys are matched case-insensitively.
func NewEvaluator(roles map[string]map[string]bool, blueprints Blueprints, homeID, errorID string) *Evaluator {
	folded := make(map[string]map[string]bool, len(roles))
	for role, perms := range roles {
		p := make(map[string]bool, len(perms))
		for key, v := range perms {
			p[strings.ToLower(key)] = v
		}
		folded[strings.ToLower(role)] = p
	}
	return &Evaluator{
		roles:      folded,
		blueprints: blueprints,
		homeID:     homeID,
		errorID:    errorID,
	}
}

// Can reports whether actor may perform action on n.
func (e *Evaluator) Can(ctx context.Context, actor types.Actor, n *types.Node, action string) (bool, error) {
	if actor.IsAnonymous() {
		return false, nil
	}
	if !e.roleAllows(actor.Role, n, action) {
		return false, nil
	}

	allowed, err := e.optionAllows(ctx, actor.Role, n, action)
	if err != nil || !allowed {
		return false, err
	}

	return e.modelAllows(n, action), nil
}

// roleAllows looks up "<kind>.<action>", then "<kind>.*", then "*". Known
// roles allow what they do not mention; unknown roles allow nothing.
func (e *Evaluator) roleAllows(role string, n *types.Node, action string) bool {
	perms, ok := e.roles[strings.ToLower(role)]
	if !ok {
		return false
	}
	scope := string(blueprint.KindOf(n))
	for _, key := range []string{scope + "." + strings.ToLower(action), scope + ".*", "*"} {
		if v, ok := perms[key]; ok {
			return v
		}
	}
	return true
}

func (e *Evaluator) optionAllows(ctx context.Context, role string, n *types.Node, action string) (bool, error) {
	if e.blueprints == nil {
		return true, nil
	}
	bp, err := e.blueprints.Load(blueprint.KindOf(n), n.IntendedTemplate())
	if errors.Is(err, blueprint.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("node", n.ID).Msg("blueprint options unavailable")
		return false, fmt.Errorf("checking %s on %s: %w", action, n.ID, err)
	}
	allowed, set := bp.Option(action, role)
	if !set {
		return true, nil
	}
	return allowed, nil
}

func (e *Evaluator) modelAllows(n *types.Node, action string) bool {
	if n.Kind != types.KindPage {
		return true
	}
	switch action {
	case ActionSort:
		return !n.IsDraft()
	case ActionChangeSlug:
		return n.ID != e.homeID && n.ID != e.errorID
	case ActionChangeStatus:
		return n.ID != e.errorID
	}
	return true
}
