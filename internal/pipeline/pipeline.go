package pipeline

import (
	"fmt"
	"time"
)

// RunPhases executes the given phases sequentially. Each tracked phase
// advances the run state before it executes; the first failure marks
// the run FAILED and aborts. A fully successful tracked run ends DONE.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting run with %d phases...", len(phases))

	tracked := false
	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		if stage := phase.Stage(); stage != "" && ctx.Status != nil {
			tracked = true
			if err := ctx.Status.Transition(stage); err != nil {
				return err
			}
		}

		ctx.Observer.Printf("[%s] starting", name)

		if err := phase.Run(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			if ctx.Status != nil {
				ctx.Status.Fail()
			}
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(phaseStart).Round(time.Millisecond))
	}

	if tracked && ctx.Status != nil {
		if err := ctx.Status.Transition(StateDone); err != nil {
			return err
		}
	}

	ctx.Observer.Printf("Run completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
