package requests

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/fstree"
)

// GetIntentKind extracts the intent kind from JSON without full unmarshaling
func GetIntentKind(data []byte) (fstree.IntentKind, error) {
	var meta struct {
		Kind fstree.IntentKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Kind, nil
}

// UnmarshalIntent decodes and validates a single JSON intent
func UnmarshalIntent(data []byte) (*fstree.Intent, error) {
	var dto IntentDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return convertIntentDTO(dto)
}

// UnmarshalIntents decodes a batch of intents. The format is chosen from the
// file name extension (.json, .yaml, .yml).
func UnmarshalIntents(name string, data []byte) ([]*fstree.Intent, error) {
	var dtos []IntentDTO
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intents: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intents: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown intents file extension: %s", name)
	}

	intents := make([]*fstree.Intent, 0, len(dtos))
	seen := make(map[string]int, len(dtos))
	for i, dto := range dtos {
		intent, err := convertIntentDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("intent %d: %w", i, err)
		}
		// failures are reported by id
		if first, ok := seen[intent.ID]; ok {
			return nil, fmt.Errorf("intent %d: duplicate id %q (first used by intent %d)", i, intent.ID, first)
		}
		seen[intent.ID] = i
		intents = append(intents, intent)
	}
	return intents, nil
}

// Conversion with defaults and per-kind required fields
func convertIntentDTO(dto IntentDTO) (*fstree.Intent, error) {
	intent := &fstree.Intent{
		ID:               valueOrDefault(dto.ID, uuid.New().String()),
		Kind:             dto.Kind,
		TargetParentPath: valueOrDefault(dto.TargetParentPath, ""),
		Name:             valueOrDefault(dto.Name, ""),
		SourcePath:       valueOrDefault(dto.SourcePath, ""),
		SourcePaths:      dto.SourcePaths,
	}

	switch dto.Kind {
	case fstree.CreateFileIntent, fstree.CreateFolderIntent:
		if intent.Name == "" {
			return nil, fmt.Errorf("%s requires a name", dto.Kind)
		}
	case fstree.RenameIntent:
		if intent.SourcePath == "" || intent.Name == "" {
			return nil, fmt.Errorf("%s requires a source and a name", dto.Kind)
		}
	case fstree.DeleteIntent:
		if intent.SourcePath == "" {
			return nil, fmt.Errorf("%s requires a source", dto.Kind)
		}
	case fstree.MoveIntent:
		if len(intent.SourcePaths) == 0 {
			return nil, fmt.Errorf("%s requires sources", dto.Kind)
		}
	default:
		return nil, fmt.Errorf("unknown intent kind: %q", dto.Kind)
	}
	return intent, nil
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
