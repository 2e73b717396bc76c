// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tilework-tech/nori-core/auth"
	"github.com/tilework-tech/nori-core/collision"
	"github.com/tilework-tech/nori-core/logger"
	"github.com/tilework-tech/nori-core/reference"
	"github.com/tilework-tech/nori-core/registry"
	"github.com/tilework-tech/nori-core/routing"
	"github.com/tilework-tech/nori-core/version"
)

// publishState tracks where a publish attempt sits in the collision retry
// machine. The machine permits exactly one transition.
type publishState int

const (
	// stateFirstAttempt is the initial upload, issued with no strategy.
	stateFirstAttempt publishState = iota

	// stateRetried is the single retried upload, issued with a resolution
	// strategy. A collision in this state is terminal.
	stateRetried
)

// UnresolvedConflictsError reports skill conflicts a non-interactive publish
// cannot resolve automatically.
type UnresolvedConflictsError struct {
	Conflicts []collision.SkillConflict
}

// Error implements the error interface.
func (e *UnresolvedConflictsError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.SkillID)
	}
	return fmt.Sprintf("unresolved skill conflicts: %s", strings.Join(ids, ", "))
}

// PublishRequest describes one publish operation.
type PublishRequest struct {
	// Reference is the package reference string, [scope/]name[@version].
	Reference string

	// Dir is the skill or profile directory to pack and upload.
	Dir string

	// Credentials are the caller's stored registry credentials.
	Credentials []auth.RegistryCredential

	// RegistryURL overrides routing when non-empty.
	RegistryURL string
}

// PublishResult reports a completed publish.
type PublishResult struct {
	Name         string
	Version      string
	IsNewPackage bool
	RegistryURL  string

	// LocalDigest is the sha256 digest of the uploaded archive as computed
	// locally, before upload.
	LocalDigest string

	// ContentHash is the registry's recorded hash for the stored content.
	ContentHash string

	// Skills summarizes which skills were newly uploaded and which were
	// linked to existing registry content. Nil when the registry reports no
	// per-skill breakdown.
	Skills *registry.SkillSummary
}

// Publisher drives the publish flow end to end.
type Publisher struct {
	registry RegistryClient
	archiver Archiver
	tokens   TokenSource
	versions *version.Resolver
	choose   collision.ChooseFunc
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithConflictChooser makes the publisher interactive: conflicts that do not
// auto-resolve are put to choose instead of failing the publish.
func WithConflictChooser(choose collision.ChooseFunc) PublisherOption {
	return func(p *Publisher) {
		p.choose = choose
	}
}

// NewPublisher wires a publisher from its collaborators. Panics if any of
// client, archiver, or tokens is nil.
func NewPublisher(client RegistryClient, archiver Archiver, tokens TokenSource, opts ...PublisherOption) *Publisher {
	if client == nil || archiver == nil || tokens == nil {
		panic("engine: NewPublisher called with nil collaborator")
	}

	p := &Publisher{
		registry: client,
		archiver: archiver,
		tokens:   tokens,
		versions: version.NewResolver(client),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish packs req.Dir and uploads it as the next version of the referenced
// package.
//
// Collision handling: the first upload carries no strategy. If the registry
// rejects it with a conflict report, conflicts are resolved (automatically
// where content is unchanged and linking is offered, interactively otherwise)
// and the upload is retried exactly once with the merged strategy. A conflict
// on the retried upload is terminal.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	ref, err := reference.Parse(req.Reference)
	if err != nil {
		return nil, err
	}

	target, err := routing.Route(ref, req.Credentials, req.RegistryURL, routing.OpPublish)
	if err != nil {
		return nil, err
	}

	token, err := p.tokens.ExchangeToken(ctx, *target.Credential)
	if err != nil {
		return nil, err
	}

	resolved, err := p.versions.ResolvePublishVersion(ctx, ref.Name, ref.Version, target.RegistryURL, token)
	if err != nil {
		return nil, err
	}

	packed, err := p.archiver.Pack(req.Dir)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", req.Dir, err)
	}

	var description string
	if packed.Meta != nil {
		description = packed.Meta.Description
	}

	upload := registry.UploadRequest{
		Name:        ref.Name,
		Version:     resolved.Version,
		Archive:     packed.Data,
		Description: description,
		RegistryURL: target.RegistryURL,
		AuthToken:   token,
	}

	result, err := p.uploadResolvingConflicts(ctx, upload)
	if err != nil {
		return nil, err
	}

	logger.Infow("published package",
		"package", ref.Name,
		"version", result.Version,
		"registry", target.RegistryURL,
		"new", resolved.IsNewPackage,
	)

	return &PublishResult{
		Name:         ref.Name,
		Version:      result.Version,
		IsNewPackage: resolved.IsNewPackage,
		RegistryURL:  target.RegistryURL,
		LocalDigest:  packed.Digest.String(),
		ContentHash:  result.ContentHash,
		Skills:       result.SkillSummary,
	}, nil
}

// uploadResolvingConflicts runs the collision retry machine around Upload.
//
// Transitions:
//
//	stateFirstAttempt --success--------------------> done
//	stateFirstAttempt --non-collision error--------> fail
//	stateFirstAttempt --collision, resolved--------> stateRetried
//	stateFirstAttempt --collision, unresolvable----> fail
//	stateRetried      --success--------------------> done
//	stateRetried      --any error------------------> fail
func (p *Publisher) uploadResolvingConflicts(ctx context.Context, req registry.UploadRequest) (*registry.UploadResult, error) {
	state := stateFirstAttempt

	for {
		result, err := p.registry.Upload(ctx, req)
		if err == nil {
			return result, nil
		}

		collided := registry.AsCollision(err)
		if collided == nil {
			return nil, err
		}
		if state == stateRetried {
			return nil, fmt.Errorf("conflicts persisted after resolution: %w", err)
		}

		strategy, err := p.buildStrategy(ctx, collided.Conflicts)
		if err != nil {
			return nil, err
		}

		logger.Debugw("retrying upload with conflict strategy",
			"package", req.Name,
			"conflicts", len(collided.Conflicts),
		)
		req.Strategy = strategy
		state = stateRetried
	}
}

// buildStrategy turns a conflict report into a complete resolution strategy,
// or fails if any conflict is left undecided.
func (p *Publisher) buildStrategy(ctx context.Context, conflicts []collision.SkillConflict) (collision.Strategy, error) {
	auto, unresolved := collision.Classify(conflicts)
	if len(unresolved) == 0 {
		return auto, nil
	}

	if p.choose == nil {
		return nil, &UnresolvedConflictsError{Conflicts: unresolved}
	}

	chosen, err := collision.ResolveInteractively(ctx, unresolved, p.choose)
	if err != nil {
		return nil, err
	}
	return auto.Merge(chosen), nil
}
