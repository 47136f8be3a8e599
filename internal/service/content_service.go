package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/repository"
)

// ErrInvalidContentFile is returned for definition files that fail to parse or validate
var ErrInvalidContentFile = errors.New("invalid content file")

// ContentFile is the on-disk YAML form of a game definition
type ContentFile struct {
	GameType models.GameType `yaml:"gameType"`
	Title    string          `yaml:"title"`
	Content  yaml.Node       `yaml:"content"`
}

// ParseContentFile decodes and validates one YAML definition. The content
// node is decoded into the game's typed content so that the stored JSON has
// a single canonical shape.
func ParseContentFile(data []byte) (models.GameDefinition, error) {
	var file ContentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.GameDefinition{}, fmt.Errorf("%w: %v", ErrInvalidContentFile, err)
	}
	if !file.GameType.Valid() {
		return models.GameDefinition{}, fmt.Errorf("%w: unknown game type %q", ErrInvalidContentFile, file.GameType)
	}
	if strings.TrimSpace(file.Title) == "" {
		return models.GameDefinition{}, fmt.Errorf("%w: %s has no title", ErrInvalidContentFile, file.GameType)
	}
	if file.Content.Kind == 0 {
		return models.GameDefinition{}, fmt.Errorf("%w: %s has no content", ErrInvalidContentFile, file.GameType)
	}

	var typed interface{ Validate() error }
	switch file.GameType {
	case models.GameAdventure:
		typed = &adventure.Story{}
	case models.GameSentenceBuilder:
		typed = &sentence.Content{}
	}
	if err := file.Content.Decode(typed); err != nil {
		return models.GameDefinition{}, fmt.Errorf("%w: %s: %v", ErrInvalidContentFile, file.GameType, err)
	}
	if err := typed.Validate(); err != nil {
		return models.GameDefinition{}, fmt.Errorf("%w: %s: %w", ErrInvalidContentFile, file.GameType, err)
	}

	content, err := json.Marshal(typed)
	if err != nil {
		return models.GameDefinition{}, fmt.Errorf("failed to encode %s content: %w", file.GameType, err)
	}
	return models.GameDefinition{
		GameType: file.GameType,
		Title:    file.Title,
		Content:  content,
	}, nil
}

// MarshalContentFile renders a stored definition back to YAML
func MarshalContentFile(def models.GameDefinition) ([]byte, error) {
	var typed any
	switch def.GameType {
	case models.GameAdventure:
		story, err := adventure.Decode(def.Content)
		if err != nil {
			return nil, err
		}
		typed = story
	case models.GameSentenceBuilder:
		c, err := sentence.Decode(def.Content)
		if err != nil {
			return nil, err
		}
		typed = c
	default:
		return nil, fmt.Errorf("%w: unknown game type %q", ErrInvalidContentFile, def.GameType)
	}

	var node yaml.Node
	if err := node.Encode(typed); err != nil {
		return nil, fmt.Errorf("failed to encode %s content: %w", def.GameType, err)
	}
	return yaml.Marshal(ContentFile{GameType: def.GameType, Title: def.Title, Content: node})
}

// ContentService imports and exports game definitions
type ContentService struct {
	repo   *repository.ContentRepository
	logger *slog.Logger
}

// NewContentService creates a new content service
func NewContentService(repo *repository.ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger}
}

// Validate parses every file without touching the database
func (s *ContentService) Validate(files map[string][]byte) ([]models.GameDefinition, error) {
	seen := make(map[models.GameType]string, len(files))
	defs := make([]models.GameDefinition, 0, len(files))
	for _, name := range slices.Sorted(maps.Keys(files)) {
		def, err := ParseContentFile(files[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, ok := seen[def.GameType]; ok {
			return nil, fmt.Errorf("%w: %s and %s both define %s", ErrInvalidContentFile, prev, name, def.GameType)
		}
		seen[def.GameType] = name
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no definitions given", ErrInvalidContentFile)
	}
	return defs, nil
}

// Import validates every file and then replaces all stored definitions
func (s *ContentService) Import(ctx context.Context, files map[string][]byte) ([]models.GameDefinition, error) {
	defs, err := s.Validate(files)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceAll(ctx, defs); err != nil {
		return nil, fmt.Errorf("failed to import content: %w", err)
	}
	for _, def := range defs {
		s.logger.Info("imported game content", "game_type", def.GameType, "title", def.Title, "bytes", len(def.Content))
	}
	return defs, nil
}

// Export returns every stored definition as YAML keyed by game type
func (s *ContentService) Export(ctx context.Context) (map[models.GameType][]byte, error) {
	defs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[models.GameType][]byte, len(defs))
	for _, def := range defs {
		data, err := MarshalContentFile(def)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", def.GameType, err)
		}
		out[def.GameType] = data
	}
	return out, nil
}
