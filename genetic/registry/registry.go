package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/evolution/genetic"
	"github.com/lixenwraith/evolution/genetic/persistence"
)

// Registry runs several independent evolutions concurrently and persists their populations
type Registry struct {
	runs        map[string]*trackedRun
	order       []string
	persistence *persistence.Manager
	logger      *slog.Logger
	mu          sync.RWMutex
}

type trackedRun struct {
	config RunConfig
	// generation counts every generation evolved, including those before a resumed snapshot
	generation int
	state      genetic.State
	resumed    bool
	result     *genetic.Population
	err        error
}

// NewRegistry creates a registry with the given persistence path
func NewRegistry(persistPath string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		runs:        make(map[string]*trackedRun),
		persistence: persistence.NewManager(persistPath),
		logger:      logger,
	}
}

// Register adds a run (must be called before RunAll)
func (r *Registry) Register(config RunConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := persistence.ValidateName(config.Name); err != nil {
		return fmt.Errorf("%w: run name: %w", genetic.ErrInvalidConfig, err)
	}
	if _, exists := r.runs[config.Name]; exists {
		return fmt.Errorf("run %q already registered", config.Name)
	}
	if config.Engine == nil || config.Initial == nil || config.Stop == nil {
		return fmt.Errorf("%w: run %q needs engine, initial population and stopping condition",
			genetic.ErrInvalidConfig, config.Name)
	}
	for _, tr := range r.runs {
		if tr.config.Engine == config.Engine {
			return fmt.Errorf("%w: run %q shares an engine with %q", genetic.ErrInvalidConfig, config.Name, tr.config.Name)
		}
		if sharesState(tr.config.Stop, config.Stop) {
			return fmt.Errorf("%w: run %q shares a stopping condition with %q", genetic.ErrInvalidConfig, config.Name, tr.config.Name)
		}
	}

	r.runs[config.Name] = &trackedRun{config: config}
	r.order = append(r.order, config.Name)
	return nil
}

// sharesState reports whether two stopping conditions reference the same state
// Value conditions never share state; slices such as genetic.AnyOf are compared by backing array,
// conditions nested inside them are not inspected
func sharesState(a, b genetic.StoppingCondition) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer:
		// Distinct zero-size values may share an address
		return va.Type().Elem().Size() > 0 && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Len() > 0 && va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// RunAll evolves every registered run concurrently and waits for all of them
// A failing run does not stop the others; all failures are joined in the returned error
func (r *Registry) RunAll(ctx context.Context) error {
	r.mu.Lock()
	runs := make([]*trackedRun, 0, len(r.order))
	for _, name := range r.order {
		tr := r.runs[name]
		if err := r.resume(tr); err != nil {
			r.mu.Unlock()
			return err
		}
		runs = append(runs, tr)
	}
	r.mu.Unlock()

	var g errgroup.Group
	for _, tr := range runs {
		g.Go(func() error {
			r.mu.RLock()
			initial := tr.config.Initial
			if tr.result != nil {
				initial = tr.result
			}
			r.mu.RUnlock()

			result, err := tr.config.Engine.Evolve(ctx, initial, tr.config.Stop)

			r.mu.Lock()
			defer r.mu.Unlock()
			if result != nil {
				tr.result = result
			}
			tr.generation += tr.config.Engine.Generation()
			tr.state = tr.config.Engine.State()
			tr.err = err
			return nil
		})
	}
	_ = g.Wait()

	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for _, tr := range runs {
		if tr.err != nil {
			errs = append(errs, fmt.Errorf("run %q: %w", tr.config.Name, tr.err))
		}
	}
	return errors.Join(errs...)
}

// resume loads a saved snapshot as the run's starting population, caller holds the lock
func (r *Registry) resume(tr *trackedRun) error {
	if tr.config.Restore == nil || tr.resumed {
		return nil
	}
	dto, err := r.persistence.Load(tr.config.Name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %q: %w", tr.config.Name, err)
	}
	if len(dto.Candidates) == 0 {
		return nil
	}

	pop, err := tr.config.Restore(dto)
	if err != nil {
		return fmt.Errorf("run %q: restore snapshot: %w", tr.config.Name, err)
	}

	tr.result = pop
	tr.generation = dto.Generation
	tr.resumed = true
	r.logger.Info("resumed population", "run", tr.config.Name, "generation", dto.Generation, "size", pop.Len())
	return nil
}

// Result returns the latest population of a run and the error it ended with
func (r *Registry) Result(name string) (*genetic.Population, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tr, ok := r.runs[name]
	if !ok {
		return nil, fmt.Errorf("run %q not registered", name)
	}
	if tr.result == nil {
		return tr.config.Initial, tr.err
	}
	return tr.result, tr.err
}

// Stats returns population statistics as of the last completed RunAll
func (r *Registry) Stats(name string) Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tr, ok := r.runs[name]
	if !ok {
		return Stats{}
	}

	pop := tr.result
	if pop == nil {
		pop = tr.config.Initial
	}
	ps := pop.Stats()
	return Stats{
		State:        tr.state,
		Generation:   tr.generation,
		BestFitness:  ps.Best,
		WorstFitness: ps.Worst,
		AvgFitness:   ps.Average,
		Resumed:      tr.resumed,
	}
}

// SaveAll persists the latest population of every run that has evolved
func (r *Registry) SaveAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for _, name := range r.order {
		tr := r.runs[name]
		if tr.result == nil {
			continue
		}

		dto, err := persistence.FromPopulation(tr.result, tr.generation)
		if err != nil {
			errs = append(errs, fmt.Errorf("run %q: %w", name, err))
			continue
		}
		if err := r.persistence.Save(name, dto); err != nil {
			errs = append(errs, fmt.Errorf("run %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Names returns registered run names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Remove unregisters a run and deletes its saved snapshot
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[name]; !ok {
		return fmt.Errorf("run %q not registered", name)
	}
	delete(r.runs, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })

	return r.persistence.Remove(name)
}

// Snapshots lists the names of saved snapshots, including those of unregistered runs
func (r *Registry) Snapshots() ([]string, error) {
	return r.persistence.List()
}
