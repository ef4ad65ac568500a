// Package handlers binds pilot and administrative commands to state
// mutations. Each handler parses its raw string args, resolves the entity
// or craft it acts on, and writes through an entity view of the current
// state.
package handlers

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Pugzilla88/orbitx/internal/dispatcher"
	"github.com/Pugzilla88/orbitx/internal/sim"
	"github.com/Pugzilla88/orbitx/internal/state"
	"github.com/Pugzilla88/orbitx/internal/storage"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Holder  *sim.Holder
	Backend storage.Backend
	Logger  zerolog.Logger
}

// Service provides handler methods for processing commands
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// RegisterAll registers every command handler on the dispatcher.
func (s *Service) RegisterAll(d *dispatcher.Dispatcher) {
	d.Register("SET_THROTTLE", s.SetThrottle)
	d.Register("SET_HEADING", s.SetHeading)
	d.Register("SET_SPIN", s.SetSpin)
	d.Register("SET_TARGET", s.SetTarget)
	d.Register("SET_REFERENCE", s.SetReference)
	d.Register("SET_NAVMODE", s.SetNavmode)
	d.Register("SET_TIME_ACC", s.SetTimeAcc)
	d.Register("DEPLOY_PARACHUTE", s.DeployParachute)
	d.Register("IGNITE_SRB", s.IgniteSRB)
	d.Register("SAVE", s.Save, dispatcher.Logged())
	d.Register("LOAD", s.Load, dispatcher.Logged())
	d.Register("LIST_SAVES", s.ListSaves)
}

// craft resolves the entity currently under pilot control.
func (s *Service) craft() (state.View, error) {
	st := s.deps.Holder.Current()
	v, ok := st.Craft()
	if !ok {
		return state.View{}, fmt.Errorf("no pilotable craft in the system")
	}
	return v, nil
}

func argString(c dispatcher.Command, i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("%s: missing argument %d", c.Name, i)
	}
	return c.Args[i], nil
}

func argFloat(c dispatcher.Command, i int) (float64, error) {
	raw, err := argString(c, i)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: argument %d: %w", c.Name, i, err)
	}
	return f, nil
}

func argBool(c dispatcher.Command, i int) (bool, error) {
	raw, err := argString(c, i)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: argument %d: %w", c.Name, i, err)
	}
	return b, nil
}

// SetThrottle sets the active craft's engine throttle.
func (s *Service) SetThrottle(c dispatcher.Command) (any, error) {
	throttle, err := argFloat(c, 0)
	if err != nil {
		return nil, err
	}

	craft, err := s.craft()
	if err != nil {
		return nil, err
	}
	craft.SetThrottle(throttle)
	return nil, nil
}

// SetHeading points the active craft. The heading is wrapped into [0, 2pi).
func (s *Service) SetHeading(c dispatcher.Command) (any, error) {
	heading, err := argFloat(c, 0)
	if err != nil {
		return nil, err
	}

	craft, err := s.craft()
	if err != nil {
		return nil, err
	}
	craft.SetHeading(heading)
	return nil, nil
}

// SetSpin sets the active craft's angular velocity.
func (s *Service) SetSpin(c dispatcher.Command) (any, error) {
	spin, err := argFloat(c, 0)
	if err != nil {
		return nil, err
	}

	craft, err := s.craft()
	if err != nil {
		return nil, err
	}
	craft.SetSpin(spin)
	return nil, nil
}

// SetTarget points navigation instruments at the named entity.
func (s *Service) SetTarget(c dispatcher.Command) (any, error) {
	name, err := argString(c, 0)
	if err != nil {
		return nil, err
	}

	st := s.deps.Holder.Current()
	if _, err := st.EntityByName(name); err != nil {
		return nil, err
	}
	st.SetTarget(name)
	return nil, nil
}

// SetReference changes the reference frame to the named entity.
func (s *Service) SetReference(c dispatcher.Command) (any, error) {
	name, err := argString(c, 0)
	if err != nil {
		return nil, err
	}

	st := s.deps.Holder.Current()
	if _, err := st.EntityByName(name); err != nil {
		return nil, err
	}
	st.SetReference(name)
	return nil, nil
}

// SetNavmode selects the autopilot navigation mode by display name.
func (s *Service) SetNavmode(c dispatcher.Command) (any, error) {
	name, err := argString(c, 0)
	if err != nil {
		return nil, err
	}

	mode, ok := core.NavmodeFromString(name)
	if !ok {
		return nil, fmt.Errorf("unknown navmode: %s", name)
	}
	s.deps.Holder.Current().SetNavmode(mode)
	return nil, nil
}

// SetTimeAcc sets the time acceleration factor.
func (s *Service) SetTimeAcc(c dispatcher.Command) (any, error) {
	acc, err := argFloat(c, 0)
	if err != nil {
		return nil, err
	}
	if acc <= 0 {
		return nil, fmt.Errorf("time acceleration must be positive, got %v", acc)
	}
	s.deps.Holder.Current().SetTimeAcc(acc)
	return nil, nil
}

// DeployParachute deploys or retracts the parachute.
func (s *Service) DeployParachute(c dispatcher.Command) (any, error) {
	deployed, err := argBool(c, 0)
	if err != nil {
		return nil, err
	}
	s.deps.Holder.Current().SetParachuteDeployed(deployed)
	return nil, nil
}

// IgniteSRB lights the solid rocket boosters. They burn once; a second
// ignition is rejected whether they are burning or spent.
func (s *Service) IgniteSRB(c dispatcher.Command) (any, error) {
	st := s.deps.Holder.Current()

	switch srb := st.SRBTime(); {
	case srb == core.SRBFull:
		st.SetSRBTime(core.SRBBurnTime)
		return nil, nil
	case srb == core.SRBEmpty:
		return nil, fmt.Errorf("SRBs are spent")
	default:
		return nil, fmt.Errorf("SRBs are already burning")
	}
}

// Save stores the current state as a named save.
func (s *Service) Save(c dispatcher.Command) (any, error) {
	name, err := argString(c, 0)
	if err != nil {
		return nil, err
	}
	if s.deps.Backend == nil {
		return nil, fmt.Errorf("no storage backend configured")
	}

	snap := s.deps.Holder.Current().ToSnapshot()
	if err := s.deps.Backend.SaveSnapshot(name, &snap); err != nil {
		return nil, err
	}
	return name, nil
}

// Load replaces the current state with a named save. The swap happens
// between integration steps, never during one.
func (s *Service) Load(c dispatcher.Command) (any, error) {
	name, err := argString(c, 0)
	if err != nil {
		return nil, err
	}
	if s.deps.Backend == nil {
		return nil, fmt.Errorf("no storage backend configured")
	}

	snap, err := s.deps.Backend.LoadSnapshot(name)
	if err != nil {
		return nil, err
	}

	st, err := state.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("save %q is not loadable: %w", name, err)
	}

	s.deps.Holder.Swap(st)
	s.deps.Logger.Info().Str("name", name).Int("entities", st.Len()).Msg("state loaded from save")
	return name, nil
}

// ListSaves returns info for every stored save.
func (s *Service) ListSaves(c dispatcher.Command) (any, error) {
	if s.deps.Backend == nil {
		return nil, fmt.Errorf("no storage backend configured")
	}
	return s.deps.Backend.ListSnapshots()
}
