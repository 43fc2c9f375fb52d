// internal/gesture/session.go
package gesture

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/xkilldash9x/touchforge/api/schemas"
)

// GripMode identifies which hand-bias profile governs start-point placement.
type GripMode string

const (
	GripRight GripMode = "right"
	GripLeft  GripMode = "left"
)

// Meta is the slow random-walk personality: global style multipliers that
// evolve over a session but stay inside their declared bounds for the
// lifetime of the process.
type Meta struct {
	CurvinessMul  float64
	HesitationAdd float64
	DriftPxAdd    float64
	ArcMul        float64
	TremorMul     float64
	// NextDriftAt is the gesture count at which the next walk step fires.
	NextDriftAt int
}

// burstWindow forces a stylistic arc variant for every gesture until the
// session count passes its deadline.
type burstWindow struct {
	mode     ArcVariant
	flipSign float64
	until    int
}

// curvinessWindow overrides the personality curviness multiplier for a
// short run of gestures.
type curvinessWindow struct {
	scale float64
	until int
}

// SessionState is the long-lived mutable personality for one logical hand
// (one device/profile). It is mutated only by engine operations and carries
// an implicit single-writer discipline: callers must serialize gestures per
// profile. Concurrent gestures against one SessionState are undefined.
type SessionState struct {
	cfg    *Config
	rng    *rand.Rand
	logger *zap.Logger

	gestureCount    int
	grip            GripMode
	leftModeUntil   int // 0 when no left run is active
	nextGripShiftAt int
	rightBias       float64
	leftBias        float64

	meta       Meta
	curvWindow *curvinessWindow
	arcBurst   *burstWindow

	// fatigue is an externally driven signal; the engine never computes it.
	fatigue float64

	lastOutlier          OutlierKind
	hesitationBoostUntil int
}

// NewSessionState creates the personality for one device/profile and seeds
// the first grip shift and drift schedules. cfg must already be validated.
func NewSessionState(cfg *Config, rng *rand.Rand, logger *zap.Logger) *SessionState {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionState{cfg: cfg, rng: rng, logger: logger}
	s.init()
	return s
}

func (s *SessionState) init() {
	s.gestureCount = 0
	s.grip = GripRight
	s.leftModeUntil = 0
	s.rightBias = uniform(s.rng, s.cfg.RightBias.Min, s.cfg.RightBias.Max)
	s.leftBias = uniform(s.rng, s.cfg.LeftBias.Min, s.cfg.LeftBias.Max)

	shift, _ := sampleBucket(s.rng, s.cfg.GripShiftBuckets)
	s.nextGripShiftAt = shift

	b := s.cfg.Meta
	s.meta = Meta{
		CurvinessMul:  uniform(s.rng, b.CurvinessMul.Min, b.CurvinessMul.Max),
		HesitationAdd: uniform(s.rng, b.HesitationAdd.Min, b.HesitationAdd.Max),
		DriftPxAdd:    uniform(s.rng, b.DriftPxAdd.Min, b.DriftPxAdd.Max),
		ArcMul:        uniform(s.rng, b.ArcMul.Min, b.ArcMul.Max),
		TremorMul:     uniform(s.rng, b.TremorMul.Min, b.TremorMul.Max),
		NextDriftAt:   uniformInt(s.rng, s.cfg.DriftInterval.Min, s.cfg.DriftInterval.Max),
	}

	s.curvWindow = nil
	s.arcBurst = nil
	s.fatigue = 0
	s.lastOutlier = OutlierNone
	s.hesitationBoostUntil = 0

	if chance(s.rng, s.cfg.BurstChanceInit) {
		s.openBurst()
	}
}

// Reset restores defaults in place so callers holding a reference keep the
// same identity.
func (s *SessionState) Reset() {
	s.init()
	s.logger.Debug("session reset")
}

// GestureCount returns the number of completed gestures.
func (s *SessionState) GestureCount() int { return s.gestureCount }

// Grip returns the currently active hand-bias profile.
func (s *SessionState) Grip() GripMode { return s.grip }

// MetaSnapshot returns a copy of the current personality multipliers.
func (s *SessionState) MetaSnapshot() Meta { return s.meta }

// SetFatigue records the externally computed fatigue level (>= 0). Fatigue
// linearly biases hesitation, tremor magnitude and outlier probability
// upward; it is never derived inside the engine.
func (s *SessionState) SetFatigue(level float64) {
	if level < 0 {
		level = 0
	}
	s.fatigue = level
}

// Fatigue returns the current externally supplied fatigue level.
func (s *SessionState) Fatigue() float64 { return s.fatigue }

// LastOutlier returns the kind of the most recent outlier, OutlierNone if
// none has occurred yet.
func (s *SessionState) LastOutlier() OutlierKind { return s.lastOutlier }

// StartPoint places a grip-biased default start point inside the viewport.
// Right-handed thumbs start right of center, left-handed left of it; the
// vertical band sits in the lower half where swipes originate.
func (s *SessionState) StartPoint(vp schemas.Viewport) Vector2D {
	bias := s.rightBias
	if s.grip == GripLeft {
		bias = s.leftBias
	}
	x := vp.Width * (bias + uniform(s.rng, -0.04, 0.04))
	y := vp.Height * uniform(s.rng, 0.55, 0.80)
	return Vector2D{
		X: clamp(x, 2, vp.Width-2),
		Y: clamp(y, 2, vp.Height-2),
	}
}

// OnGestureCompleted advances the personality model after a successfully
// dispatched gesture: increments the counter, expires stale windows, and
// runs the grip-shift and drift schedules. It must not be called for failed
// gestures; a half-dispatched gesture never advances the model.
func (s *SessionState) OnGestureCompleted() {
	s.gestureCount++
	s.expireWindows()
	s.maybeShiftGrip()
	s.maybeDrift()
}

func (s *SessionState) expireWindows() {
	if s.curvWindow != nil && s.gestureCount > s.curvWindow.until {
		s.curvWindow = nil
	}
	if s.arcBurst != nil && s.gestureCount > s.arcBurst.until {
		s.logger.Debug("arc burst expired", zap.Int("gesture", s.gestureCount))
		s.arcBurst = nil
	}
	if s.hesitationBoostUntil != 0 && s.gestureCount > s.hesitationBoostUntil {
		s.hesitationBoostUntil = 0
	}
}

// maybeShiftGrip runs the alternation schedule. Right runs end when the
// weighted-bucket shift point arrives; left runs end when their sampled run
// length expires. Mode strictly alternates right -> left -> right.
func (s *SessionState) maybeShiftGrip() {
	switch s.grip {
	case GripLeft:
		if s.gestureCount >= s.leftModeUntil {
			s.grip = GripRight
			s.leftModeUntil = 0
			shift, _ := sampleBucket(s.rng, s.cfg.GripShiftBuckets)
			s.nextGripShiftAt = s.gestureCount + shift
			s.perturbBias()
			s.logger.Debug("grip shift", zap.String("grip", string(s.grip)),
				zap.Int("nextShiftAt", s.nextGripShiftAt))
		}
	case GripRight:
		if s.gestureCount >= s.nextGripShiftAt {
			s.grip = GripLeft
			run, _ := sampleBucket(s.rng, s.cfg.LeftRunBuckets)
			s.leftModeUntil = s.gestureCount + run
			s.perturbBias()
			if chance(s.rng, s.cfg.BurstChanceShift) {
				s.openBurst()
			}
			s.logger.Debug("grip shift", zap.String("grip", string(s.grip)),
				zap.Int("leftModeUntil", s.leftModeUntil))
		}
	}
}

// perturbBias nudges the hand-position bias by a small bounded delta,
// clamped back into its declared range.
func (s *SessionState) perturbBias() {
	d := s.cfg.BiasDelta
	s.rightBias = clamp(s.rightBias+uniform(s.rng, -d, d), s.cfg.RightBias.Min, s.cfg.RightBias.Max)
	s.leftBias = clamp(s.leftBias+uniform(s.rng, -d, d), s.cfg.LeftBias.Min, s.cfg.LeftBias.Max)
}

// maybeDrift applies one bounded random-walk step to every meta field when
// the drift deadline passes. Each field is clamped into its declared bounds,
// so the walk cannot diverge no matter how many steps elapse.
func (s *SessionState) maybeDrift() {
	if s.gestureCount < s.meta.NextDriftAt {
		return
	}
	d := s.cfg.DriftStep
	b := s.cfg.Meta
	s.meta.CurvinessMul = clamp(s.meta.CurvinessMul+uniform(s.rng, -d, d), b.CurvinessMul.Min, b.CurvinessMul.Max)
	s.meta.HesitationAdd = clamp(s.meta.HesitationAdd+uniform(s.rng, -d, d), b.HesitationAdd.Min, b.HesitationAdd.Max)
	s.meta.DriftPxAdd = clamp(s.meta.DriftPxAdd+uniform(s.rng, -d, d)*20, b.DriftPxAdd.Min, b.DriftPxAdd.Max)
	s.meta.ArcMul = clamp(s.meta.ArcMul+uniform(s.rng, -d, d), b.ArcMul.Min, b.ArcMul.Max)
	s.meta.TremorMul = clamp(s.meta.TremorMul+uniform(s.rng, -d, d), b.TremorMul.Min, b.TremorMul.Max)
	s.meta.NextDriftAt = s.gestureCount + uniformInt(s.rng, s.cfg.DriftInterval.Min, s.cfg.DriftInterval.Max)
	s.logger.Debug("personality drift",
		zap.Float64("curviness", s.meta.CurvinessMul),
		zap.Float64("arcMul", s.meta.ArcMul),
		zap.Int("nextDriftAt", s.meta.NextDriftAt))
}

// openBurst starts a multi-gesture stylistic window. A flip burst fixes its
// sign up front so every covered gesture curves to the same side.
func (s *SessionState) openBurst() {
	mode := pickVariant(s.rng, s.cfg.VariantWeights)
	sign := 1.0
	if s.rng.Intn(2) == 0 {
		sign = -1.0
	}
	s.arcBurst = &burstWindow{
		mode:     mode,
		flipSign: sign,
		until:    s.gestureCount + uniformInt(s.rng, s.cfg.BurstGestures.Min, s.cfg.BurstGestures.Max),
	}
	// Some bursts also pin curviness, making the window read as one
	// deliberate stylistic phase rather than random per-gesture variance.
	if chance(s.rng, 0.4) {
		s.curvWindow = &curvinessWindow{
			scale: uniform(s.rng, 0.7, 1.5),
			until: s.arcBurst.until,
		}
	}
	s.logger.Debug("arc burst opened", zap.String("mode", string(mode)),
		zap.Int("until", s.arcBurst.until))
}

// ForceBurst pins an arc variant for the next n gestures. Exposed for
// callers that want a deterministic stylistic phase (and for tests).
func (s *SessionState) ForceBurst(mode ArcVariant, n int) {
	sign := 1.0
	if s.rng.Intn(2) == 0 {
		sign = -1.0
	}
	s.arcBurst = &burstWindow{mode: mode, flipSign: sign, until: s.gestureCount + n}
}

// noteOutlier records the outlier chosen for the current gesture and, with
// the configured probability, opens a short hesitation window covering the
// next 1-3 gestures.
func (s *SessionState) noteOutlier(ev OutlierEvent) {
	if ev.Kind == OutlierNone {
		return
	}
	s.lastOutlier = ev.Kind
	if chance(s.rng, s.cfg.HesitationBoostChance) {
		span := uniformInt(s.rng, s.cfg.HesitationBoostGestures.Min, s.cfg.HesitationBoostGestures.Max)
		s.hesitationBoostUntil = s.gestureCount + span
	}
}

// hesitation returns the current additive hesitation probability: the slow
// personality component plus any open boost window, raised by fatigue.
func (s *SessionState) hesitation() float64 {
	h := s.meta.HesitationAdd
	if s.hesitationBoostUntil != 0 && s.gestureCount <= s.hesitationBoostUntil {
		h += s.cfg.HesitationBoostAdd
	}
	return h * (1.0 + s.fatigue)
}

// style assembles the lateral geometry parameters for the next gesture.
func (s *SessionState) style(surgeMul float64) lateralStyle {
	curviness := s.meta.CurvinessMul
	if s.curvWindow != nil && s.gestureCount <= s.curvWindow.until {
		curviness = s.curvWindow.scale
	}
	var burst *burstWindow
	if s.arcBurst != nil && s.gestureCount <= s.arcBurst.until {
		burst = s.arcBurst
	}
	if surgeMul < 1 {
		surgeMul = 1
	}
	return lateralStyle{
		curviness: curviness,
		arcMul:    s.meta.ArcMul,
		driftPx:   s.meta.DriftPxAdd,
		surgeMul:  surgeMul,
		burst:     burst,
	}
}

// tremorScale is the amplitude multiplier fed to the tremor process.
func (s *SessionState) tremorScale() float64 {
	return s.meta.TremorMul * (1.0 + s.cfg.TremorFatigueGain*s.fatigue)
}
