// Package pipeline chains transformers with a final estimator so the whole
// sequence can be fitted, scored and tuned as one unit.
package pipeline

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// Step is a named transformer stage.
type Step struct {
	Name        string
	Transformer model.TunableTransformer
}

// Pipeline runs its transformer steps in order and delegates prediction to
// the final estimator. It satisfies model.Estimator, so search objects can
// tune parameters of any stage through "step__param" names.
type Pipeline struct {
	steps     []Step
	finalName string
	estimator model.Estimator
}

// New builds a pipeline from transformer steps and a named final estimator.
func New(steps []Step, finalName string, estimator model.Estimator) (*Pipeline, error) {
	if estimator == nil {
		return nil, scierr.NewValueError("pipeline.New", "final estimator must not be nil")
	}
	if finalName == "" {
		return nil, scierr.NewValueError("pipeline.New", "final estimator needs a name")
	}

	seen := map[string]bool{finalName: true}
	for _, step := range steps {
		if step.Name == "" || step.Transformer == nil {
			return nil, scierr.NewValueError("pipeline.New", "every step needs a name and a transformer")
		}
		if strings.Contains(step.Name, "__") {
			return nil, scierr.NewValueError("pipeline.New", "step names must not contain '__'")
		}
		if seen[step.Name] {
			return nil, scierr.NewValueError("pipeline.New", "duplicate step name "+step.Name)
		}
		seen[step.Name] = true
	}

	return &Pipeline{steps: steps, finalName: finalName, estimator: estimator}, nil
}

// transform pushes X through every transformer step using Transform only,
// for already-fitted pipelines.
func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.Transform(current)
		if err != nil {
			return nil, scierr.Wrapf(err, "pipeline step %s", step.Name)
		}
		current = transformed
	}
	return current, nil
}

// Fit fits each transformer on the output of the previous one, then fits the
// final estimator on the fully transformed data.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.FitTransform(current)
		if err != nil {
			return scierr.Wrapf(err, "pipeline step %s", step.Name)
		}
		current = transformed
	}
	if err := p.estimator.Fit(current, y); err != nil {
		return scierr.Wrapf(err, "pipeline step %s", p.finalName)
	}
	return nil
}

// Predict transforms X and predicts with the final estimator.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	transformed, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.estimator.Predict(transformed)
}

// Score transforms X and scores the final estimator on it.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	transformed, err := p.transform(X)
	if err != nil {
		return 0, err
	}
	return p.estimator.Score(transformed, y)
}

// PredictProba transforms X and returns the final classifier's probability
// estimates. Fails if the final estimator is not a classifier.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	classifier, ok := p.estimator.(model.Classifier)
	if !ok {
		return nil, scierr.NewValueError("Pipeline.PredictProba", "final estimator does not expose probabilities")
	}
	transformed, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return classifier.PredictProba(transformed)
}

// GetParams returns every stage's parameters under "step__param" keys.
func (p *Pipeline) GetParams() model.Params {
	out := model.Params{}
	for _, step := range p.steps {
		for key, value := range step.Transformer.GetParams() {
			out[step.Name+"__"+key] = value
		}
	}
	for key, value := range p.estimator.GetParams() {
		out[p.finalName+"__"+key] = value
	}
	return out
}

// SetParams routes "step__param" entries to the named stage. Unknown step
// names or parameters return a ParamError.
func (p *Pipeline) SetParams(params model.Params) error {
	// Group by stage so each SetParams call sees its full batch.
	byStage := make(map[string]model.Params)
	for key, value := range params {
		parts := strings.SplitN(key, "__", 2)
		if len(parts) != 2 {
			return scierr.NewParamError("Pipeline", key, "expected 'step__param' form")
		}
		if byStage[parts[0]] == nil {
			byStage[parts[0]] = model.Params{}
		}
		byStage[parts[0]][parts[1]] = value
	}

	for stage, stageParams := range byStage {
		editor, err := p.stage(stage)
		if err != nil {
			return err
		}
		if err := editor.SetParams(stageParams); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) stage(name string) (model.ParamEditor, error) {
	if name == p.finalName {
		return p.estimator, nil
	}
	for _, step := range p.steps {
		if step.Name == name {
			return step.Transformer, nil
		}
	}
	return nil, scierr.NewParamError("Pipeline", name, "no step with this name")
}

// Clone returns an unfitted pipeline with cloned stages and the same
// hyper-parameters.
func (p *Pipeline) Clone() model.Estimator {
	steps := make([]Step, len(p.steps))
	for i, step := range p.steps {
		steps[i] = Step{Name: step.Name, Transformer: step.Transformer.CloneTransformer()}
	}
	return &Pipeline{
		steps:     steps,
		finalName: p.finalName,
		estimator: p.estimator.Clone(),
	}
}

// StepNames returns the stage names in execution order, final estimator last.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps)+1)
	for _, step := range p.steps {
		names = append(names, step.Name)
	}
	return append(names, p.finalName)
}
