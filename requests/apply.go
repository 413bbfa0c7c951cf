package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/brettbedarf/fstree"
	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/internal/util"
)

// Apply resolves the intent's paths to nodes and runs the matching tree
// mutation
func Apply(ctx context.Context, tree *filesystem.Tree, intent *fstree.Intent) error {
	logger := util.GetLogger("requests.Apply")
	logger.Debug().Str("id", intent.ID).Str("kind", string(intent.Kind)).Msg("Applying intent")

	switch intent.Kind {
	case fstree.CreateFileIntent, fstree.CreateFolderIntent:
		at, err := tree.Lookup(intent.TargetParentPath)
		if err != nil {
			return err
		}
		if intent.Kind == fstree.CreateFileIntent {
			return tree.CreateFile(ctx, intent.Name, at)
		}
		return tree.CreateFolder(ctx, intent.Name, at)

	case fstree.RenameIntent, fstree.DeleteIntent:
		node, err := tree.Lookup(intent.SourcePath)
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("%s: cannot apply to the root", intent.Kind)
		}
		if intent.Kind == fstree.RenameIntent {
			return tree.Rename(ctx, node, intent.Name)
		}
		return tree.Delete(ctx, node)

	case fstree.MoveIntent:
		target, err := tree.Lookup(intent.TargetParentPath)
		if err != nil {
			return err
		}
		// sources that no longer resolve fail alone, as inside the batch
		var lookupFailures []filesystem.MoveFailure
		sources := make([]*filesystem.Node, 0, len(intent.SourcePaths))
		for _, p := range intent.SourcePaths {
			src, err := tree.Lookup(p)
			if err == nil && src == nil {
				err = fmt.Errorf("%s: cannot move the root", intent.Kind)
			}
			if err != nil {
				lookupFailures = append(lookupFailures, filesystem.MoveFailure{Source: p, Err: err})
				continue
			}
			sources = append(sources, src)
		}
		err = tree.Move(ctx, sources, target)
		if len(lookupFailures) == 0 {
			return err
		}
		var moveErr *filesystem.MoveError
		if errors.As(err, &moveErr) {
			lookupFailures = append(lookupFailures, moveErr.Failures...)
		} else if err != nil {
			return err
		}
		return &filesystem.MoveError{Failures: lookupFailures}

	default:
		return fmt.Errorf("unknown intent kind: %q", intent.Kind)
	}
}

// ApplyAll applies intents in order. Like a move batch it is best-effort:
// every intent is attempted and the failures are returned by intent ID.
// Failures of intents sharing an ID are joined under that ID.
func ApplyAll(ctx context.Context, tree *filesystem.Tree, intents []*fstree.Intent) map[string]error {
	logger := util.GetLogger("requests.ApplyAll")
	failed := make(map[string]error)
	count := 0
	for _, intent := range intents {
		if err := Apply(ctx, tree, intent); err != nil {
			logger.Warn().Err(err).Str("id", intent.ID).Msg("Intent failed")
			failed[intent.ID] = errors.Join(failed[intent.ID], err)
			count++
		}
	}
	logger.Info().Int("applied", len(intents)-count).Int("failed", count).Msg("Intents applied")
	return failed
}
