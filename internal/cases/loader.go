// Package cases loads and validates case definitions from YAML files. A case
// that fails validation is refused outright; the engine never sees it.
package cases

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrValidation marks a malformed case definition. It is fatal at load time.
var ErrValidation = errors.NewSentinel("invalid case definition")

// ErrNotFound marks a reference to an unknown case id.
var ErrNotFound = errors.NewSentinel("case not found")

const defaultActionCost = 1
const defaultAttempts = 10

// caseFile mirrors the YAML layout of a case definition.
type caseFile struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	Locations []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"locations"`

	Evidence []struct {
		ID           string   `yaml:"id"`
		Location     string   `yaml:"location"`
		Name         string   `yaml:"name"`
		Description  string   `yaml:"description"`
		Triggers     []string `yaml:"triggers"`
		Significance string   `yaml:"significance"`
		Strength     string   `yaml:"strength"`
		Implicates   []string `yaml:"implicates"`
		Exonerates   []string `yaml:"exonerates"`
	} `yaml:"evidence"`

	Witnesses []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Role      string `yaml:"role"`
		Authority bool   `yaml:"authority"`
		Wants     string `yaml:"wants"`
		Fears     string `yaml:"fears"`
	} `yaml:"witnesses"`

	Hypotheses []struct {
		ID          string           `yaml:"id"`
		Tier        int              `yaml:"tier"`
		Title       string           `yaml:"title"`
		Description string           `yaml:"description"`
		Requirement *requirementNode `yaml:"requirement"`
	} `yaml:"hypotheses"`

	NotPresent []struct {
		Triggers []string `yaml:"triggers"`
		Response string   `yaml:"response"`
	} `yaml:"not_present"`

	ActionCost int `yaml:"action_cost"`
	Attempts   int `yaml:"attempts"`

	Solution struct {
		Culprit     string   `yaml:"culprit"`
		Method      string   `yaml:"method"`
		Motive      string   `yaml:"motive"`
		KeyEvidence []string `yaml:"key_evidence"`
		Deductions  []string `yaml:"deductions"`

		CommonMistakes map[string]struct {
			Reason   string `yaml:"reason"`
			WhyWrong string `yaml:"why_wrong"`
		} `yaml:"common_mistakes"`

		FallacyExamples map[string]string `yaml:"fallacy_examples"`

		Timeline []string `yaml:"timeline"`

		CausationPairs []struct {
			Presence string `yaml:"presence"`
			Timeline string `yaml:"timeline"`
		} `yaml:"causation_pairs"`

		PostHocClaims []struct {
			Evidence string `yaml:"evidence"`
			Effect   string `yaml:"effect"`
		} `yaml:"post_hoc_claims"`
	} `yaml:"solution"`
}

// requirementNode is the YAML form of a requirement tree node. Exactly one of
// the fields must be set.
type requirementNode struct {
	Evidence  string            `yaml:"evidence"`
	Threshold *thresholdNode    `yaml:"threshold"`
	AllOf     []requirementNode `yaml:"all_of"`
	AnyOf     []requirementNode `yaml:"any_of"`
}

type thresholdNode struct {
	Metric string `yaml:"metric"`
	Value  int    `yaml:"value"`
}

// Load reads and validates a single case file.
func Load(path string) (*models.CaseDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read case file", slog.String("path", path))
	}
	return Parse(raw)
}

// Parse decodes and validates a case definition from YAML.
func Parse(raw []byte) (*models.CaseDefinition, error) {
	var file caseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(ErrValidation, "decode case yaml", slog.String("cause", err.Error()))
	}

	def, err := file.toModel()
	if err != nil {
		return nil, err
	}
	if err := validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

// LoadDir loads every *.yaml case in a directory, keyed by case id.
func LoadDir(dir string) (map[string]*models.CaseDefinition, error) {
	defs := map[string]*models.CaseDefinition{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		def, err := Load(path)
		if err != nil {
			return errors.Wrap(err, "load case", slog.String("path", path))
		}
		if _, ok := defs[def.ID]; ok {
			return errors.Wrap(ErrValidation, "duplicate case id", slog.String("case_id", def.ID))
		}
		defs[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (f *caseFile) toModel() (*models.CaseDefinition, error) {
	def := models.CaseDefinition{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		ActionCost:      f.ActionCost,
		InitialAttempts: f.Attempts,
	}
	if def.ActionCost == 0 {
		def.ActionCost = defaultActionCost
	}
	if def.InitialAttempts == 0 {
		def.InitialAttempts = defaultAttempts
	}

	for _, l := range f.Locations {
		def.Locations = append(def.Locations, models.Location{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
		})
	}
	for _, e := range f.Evidence {
		def.Evidence = append(def.Evidence, models.Evidence{
			ID:           e.ID,
			LocationID:   e.Location,
			Name:         e.Name,
			Description:  e.Description,
			Triggers:     e.Triggers,
			Significance: e.Significance,
			Strength:     e.Strength,
			Implicates:   e.Implicates,
			Exonerates:   e.Exonerates,
		})
	}
	for _, w := range f.Witnesses {
		def.Witnesses = append(def.Witnesses, models.Witness{
			ID:        w.ID,
			Name:      w.Name,
			Role:      w.Role,
			Authority: w.Authority,
			Wants:     w.Wants,
			Fears:     w.Fears,
		})
	}
	for _, h := range f.Hypotheses {
		hypothesis := models.Hypothesis{
			ID:          h.ID,
			Tier:        models.HypothesisTier(h.Tier),
			Title:       h.Title,
			Description: h.Description,
		}
		if h.Requirement != nil {
			requirement, err := h.Requirement.toModel()
			if err != nil {
				return nil, errors.Wrap(err, "build requirement tree", slog.String("hypothesis_id", h.ID))
			}
			hypothesis.Requirement = requirement
		}
		def.Hypotheses = append(def.Hypotheses, hypothesis)
	}
	for _, np := range f.NotPresent {
		def.NotPresentTriggers = append(def.NotPresentTriggers, models.NotPresentTrigger{
			Triggers:   np.Triggers,
			ResponseID: np.Response,
		})
	}

	def.Solution = models.Solution{
		Culprit:     f.Solution.Culprit,
		Method:      f.Solution.Method,
		Motive:      f.Solution.Motive,
		KeyEvidence: f.Solution.KeyEvidence,
		Deductions:  f.Solution.Deductions,
		Timeline:    f.Solution.Timeline,
	}
	if len(f.Solution.CommonMistakes) > 0 {
		def.Solution.CommonMistakes = map[string]models.CommonMistake{}
		for id, mistake := range f.Solution.CommonMistakes {
			def.Solution.CommonMistakes[id] = models.CommonMistake{
				Reason:   mistake.Reason,
				WhyWrong: mistake.WhyWrong,
			}
		}
	}
	if len(f.Solution.FallacyExamples) > 0 {
		def.Solution.FallacyExamples = map[models.Fallacy]string{}
		for kind, example := range f.Solution.FallacyExamples {
			def.Solution.FallacyExamples[models.Fallacy(kind)] = example
		}
	}
	for _, pair := range f.Solution.CausationPairs {
		def.Solution.CausationPairs = append(def.Solution.CausationPairs, models.CausationPair{
			PresenceEvidenceID: pair.Presence,
			TimelineEvidenceID: pair.Timeline,
		})
	}
	for _, claim := range f.Solution.PostHocClaims {
		def.Solution.PostHocClaims = append(def.Solution.PostHocClaims, models.PostHocClaim{
			EvidenceID:       claim.Evidence,
			EffectEvidenceID: claim.Effect,
		})
	}

	return &def, nil
}

func (node *requirementNode) toModel() (models.Requirement, error) {
	variants := 0
	if node.Evidence != "" {
		variants++
	}
	if node.Threshold != nil {
		variants++
	}
	if node.AllOf != nil {
		variants++
	}
	if node.AnyOf != nil {
		variants++
	}
	if variants != 1 {
		return nil, errors.Wrap(ErrValidation, "requirement node must have exactly one variant",
			slog.Int("variants", variants))
	}

	switch {
	case node.Evidence != "":
		return models.EvidenceCollected{EvidenceID: node.Evidence}, nil
	case node.Threshold != nil:
		return models.ThresholdMet{
			Metric:    models.Metric(node.Threshold.Metric),
			Threshold: node.Threshold.Value,
		}, nil
	case node.AllOf != nil:
		children, err := childModels(node.AllOf)
		if err != nil {
			return nil, err
		}
		return models.AllOf{Children: children}, nil
	default:
		children, err := childModels(node.AnyOf)
		if err != nil {
			return nil, err
		}
		return models.AnyOf{Children: children}, nil
	}
}

func childModels(nodes []requirementNode) ([]models.Requirement, error) {
	children := make([]models.Requirement, 0, len(nodes))
	for i := range nodes {
		child, err := nodes[i].toModel()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
