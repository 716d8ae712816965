package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/config"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/schema"
)

// translateArtifact converts an HCL artifact block into the agnostic model,
// resolving its type expression.
func (l *Loader) translateArtifact(ctx context.Context, block *schema.ArtifactBlock) (*config.ArtifactDefinition, error) {
	ty, err := typeExprToCtyType(ctx, block.Type)
	if err != nil {
		return nil, fmt.Errorf("artifact '%s': %w", block.ID, err)
	}
	return &config.ArtifactDefinition{
		ID:          block.ID,
		Type:        ty,
		Description: block.Description,
	}, nil
}

// translateBuilder converts an HCL builder block into the agnostic model.
func (l *Loader) translateBuilder(block *schema.BuilderBlock) *config.BuilderDefinition {
	return &config.BuilderDefinition{
		Name:        block.Name,
		Handler:     block.Handler,
		Description: block.Description,
		Consumes:    block.Consumes,
		Produces:    block.Produces,
		Arguments:   l.extractBodyAttributes(block.Arguments),
	}
}

// translateCondition converts an HCL condition block into the agnostic
// model, compiling its when expression into a predicate.
func (l *Loader) translateCondition(block *schema.ConditionBlock) *config.ConditionDefinition {
	return &config.ConditionDefinition{
		Name:      block.Name,
		Inputs:    block.Inputs,
		Gates:     block.Gates,
		Predicate: compilePredicate(block.Name, block.When),
	}
}

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. A nil expression defaults to any.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to any.")
		return cty.DynamicPseudoType, nil
	}

	ty, diags := typeexpr.Type(expr)
	if diags.HasErrors() {
		return cty.DynamicPseudoType, fmt.Errorf("invalid type expression: %w", diags)
	}
	return ty, nil
}

// extractBodyAttributes flattens an arguments block into a plain
// name-to-expression map for the agnostic model.
func (l *Loader) extractBodyAttributes(block *schema.BuilderArgs) map[string]hcl.Expression {
	if block == nil || block.Body == nil {
		return nil
	}
	attrs, _ := block.Body.JustAttributes()
	if len(attrs) == 0 {
		return nil
	}
	exprMap := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap
}
