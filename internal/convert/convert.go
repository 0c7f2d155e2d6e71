package convert

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ggufconv/internal/process"
)

// Converter runs the conversion pipeline with a given toolchain.
type Converter struct {
	tools     Toolchain
	runner    process.Runner
	log       zerolog.Logger
	publisher EventPublisher
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for step progress.
func WithLogger(l zerolog.Logger) Option { return func(c *Converter) { c.log = l } }

// WithPublisher installs an EventPublisher; nil restores the no-op default.
func WithPublisher(p EventPublisher) Option {
	return func(c *Converter) {
		if p == nil {
			p = noopPublisher{}
		}
		c.publisher = p
	}
}

// New constructs a Converter. A nil runner means a process.ExecRunner that
// logs child output through the converter's logger.
func New(tools Toolchain, runner process.Runner, opts ...Option) *Converter {
	c := &Converter{
		tools:     tools.withDefaults(),
		runner:    runner,
		log:       zerolog.Nop(),
		publisher: noopPublisher{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.runner == nil {
		c.runner = process.NewExecRunner(c.log)
	}
	return c
}

// Toolchain returns the effective toolchain, defaults applied.
func (c *Converter) Toolchain() Toolchain { return c.tools }

// Plan returns the commands Convert would run for req, in order.
func (c *Converter) Plan(req Request) ([]process.Command, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cmds := []process.Command{c.tools.ConvertCommand(req.HFModel, req.GGUFOutput)}
	if req.Quantize() {
		cmds = append(cmds, c.tools.QuantizeCommand(req.GGUFOutput, req.QuantizedOutput, req.QuantType, req.QuantAlgo))
	}
	return cmds, nil
}

// Convert runs the conversion step and then, if requested, the quantization
// step. A failing step stops the pipeline; its error is returned as produced
// by the runner.
func (c *Converter) Convert(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := c.runStep(ctx, StepConvert, c.tools.ConvertCommand(req.HFModel, req.GGUFOutput)); err != nil {
		return err
	}
	if !req.Quantize() {
		return nil
	}
	return c.runStep(ctx, StepQuantize, c.tools.QuantizeCommand(req.GGUFOutput, req.QuantizedOutput, req.QuantType, req.QuantAlgo))
}

func (c *Converter) runStep(ctx context.Context, step string, cmd process.Command) error {
	argv := cmd.Argv()
	c.log.Info().Str("step", step).Str("cmd", cmd.String()).Msg("step start")
	c.publisher.Publish(Event{Name: EventStepStart, Step: step, Command: argv})

	start := time.Now()
	err := c.runner.Run(ctx, cmd)
	dur := time.Since(start)
	if err != nil {
		fields := map[string]any{"duration": dur, "error": err.Error()}
		z := c.log.Error().Str("step", step).Dur("dur", dur)
		if pe, ok := process.AsProcessError(err); ok {
			fields["exit_code"] = pe.ExitCode
			z = z.Int("exit_code", pe.ExitCode)
		}
		z.Err(err).Msg("step failed")
		c.publisher.Publish(Event{Name: EventStepFailed, Step: step, Command: argv, Fields: fields})
		return err
	}
	c.log.Info().Str("step", step).Dur("dur", dur).Msg("step done")
	c.publisher.Publish(Event{Name: EventStepDone, Step: step, Command: argv, Fields: map[string]any{"duration": dur}})
	return nil
}
