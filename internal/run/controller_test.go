package run

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/leaderboard"
	"github.com/vovakirdan/snowrun/internal/sched"
	"github.com/vovakirdan/snowrun/internal/storage"
)

type fakePlayer struct {
	shield    bool
	lives     int
	corrected int
	unstuck   int
	disabled  int
	shields   int
	boosts    int
}

func (p *fakePlayer) ConsumeShield() bool {
	if !p.shield {
		return false
	}
	p.shield = false
	return true
}

func (p *fakePlayer) ConsumeExtraLife() bool {
	if p.lives <= 0 {
		return false
	}
	p.lives--
	return true
}

func (p *fakePlayer) ApplyShield() {
	p.shield = true
	p.shields++
}

func (p *fakePlayer) CorrectRotation() { p.corrected++ }
func (p *fakePlayer) Unstick()         { p.unstuck++ }
func (p *fakePlayer) DisableControls() { p.disabled++ }
func (p *fakePlayer) ApplySpeedBoost() { p.boosts++ }
func (p *fakePlayer) AddExtraLife()    { p.lives++ }

type fakeScorer struct {
	score  int
	tricks int
	mark   float64
}

func (s *fakeScorer) Score() int         { return s.score }
func (s *fakeScorer) Tricks() int        { return s.tricks }
func (s *fakeScorer) Watermark() float64 { return s.mark }

type recorder struct {
	effects []Effect
	results []Result
}

func (r *recorder) PlayEffect(e Effect)  { r.effects = append(r.effects, e) }
func (r *recorder) ShowResults(x Result) { r.results = append(r.results, x) }

type countingBoard struct {
	inner   *leaderboard.Store
	submits int
}

func (b *countingBoard) Submit(name string, score int) ([]leaderboard.Entry, error) {
	b.submits++
	return b.inner.Submit(name, score)
}

type fixture struct {
	c      *Controller
	player *fakePlayer
	scorer *fakeScorer
	pres   *recorder
	board  *countingBoard
	prefs  *storage.MemPrefs
	tasks  *sched.Queue
}

func newFixture(mode Mode) *fixture {
	cfg := config.DefaultConfig()
	prefs := storage.NewMemPrefs()
	logger := log.New(&bytes.Buffer{})
	f := &fixture{
		player: &fakePlayer{},
		scorer: &fakeScorer{},
		pres:   &recorder{},
		prefs:  prefs,
		tasks:  sched.New(),
		board: &countingBoard{
			inner: leaderboard.New(cfg.Leaderboard, prefs, rand.New(rand.NewSource(1)), logger),
		},
	}
	f.c = New(cfg.Run, mode, Deps{
		Player:      f.player,
		Scorer:      f.scorer,
		Prefs:       prefs,
		Leaderboard: f.board,
		Presenter:   f.pres,
		Tasks:       f.tasks,
		Logger:      logger,
	})
	return f
}

func TestShieldAbsorbsExactlyOneCrash(t *testing.T) {
	f := newFixture(ModeEndless)
	f.player.shield = true

	f.c.HandleContact(TagGround)
	if f.c.Ending() || f.player.disabled != 0 {
		t.Fatal("shielded crash ended the run")
	}
	if f.player.shield || f.player.corrected != 1 {
		t.Errorf("shield = %v corrected = %d", f.player.shield, f.player.corrected)
	}

	f.c.HandleContact(TagGround)
	if !f.c.Ending() || f.player.disabled != 1 {
		t.Fatal("second crash without shield or lives did not crash")
	}
	f.tasks.Poll(0.5)
	if f.c.Over() {
		t.Error("run ended before the crash delay")
	}
	f.tasks.Poll(1)
	if !f.c.Over() || f.c.Reason() != EndCrash {
		t.Errorf("over = %v reason = %q", f.c.Over(), f.c.Reason())
	}
}

func TestShieldBeforeExtraLife(t *testing.T) {
	f := newFixture(ModeEndless)
	f.player.shield = true
	f.player.lives = 1

	f.c.HandleContact(TagGround)
	if f.player.lives != 1 {
		t.Errorf("lives = %d, want 1", f.player.lives)
	}
	if f.player.unstuck != 0 {
		t.Error("shield resolution used the unstick nudge")
	}
}

func TestExtraLifeDecrementsOnce(t *testing.T) {
	f := newFixture(ModeEndless)
	f.player.lives = 2

	f.c.HandleContact(TagGround)
	if f.player.lives != 1 || f.player.corrected != 1 || f.player.unstuck != 1 {
		t.Errorf("after one crash: %+v", f.player)
	}
	f.c.HandleContact(TagGround)
	f.c.HandleContact(TagGround)
	if f.player.lives != 0 {
		t.Errorf("lives = %d, want 0", f.player.lives)
	}
	if !f.c.Ending() {
		t.Error("third crash did not end the run")
	}
}

func TestCrashHandledOnce(t *testing.T) {
	f := newFixture(ModeEndless)
	f.c.HandleContact(TagGround)
	f.c.HandleContact(TagGround)
	f.tasks.Poll(5)

	if f.player.disabled != 1 {
		t.Errorf("disabled %d times", f.player.disabled)
	}
	if len(f.pres.results) != 1 || f.board.submits != 1 {
		t.Errorf("results = %d submits = %d, want 1 and 1", len(f.pres.results), f.board.submits)
	}
}

func TestFallBypassesShieldAndLives(t *testing.T) {
	f := newFixture(ModeEndless)
	f.player.shield = true
	f.player.lives = 3

	f.c.HandleContact(TagFall)
	if !f.c.Over() || f.c.Reason() != EndFall {
		t.Fatalf("over = %v reason = %q", f.c.Over(), f.c.Reason())
	}
	if !f.player.shield || f.player.lives != 3 {
		t.Error("fall consumed shield or lives")
	}
}

func TestTimeTrialCountdownEndsOnce(t *testing.T) {
	f := newFixture(ModeTimeTrial)
	f.scorer.score = 42

	f.c.Update(299)
	if f.c.Over() {
		t.Fatal("ended early")
	}
	f.c.Update(1)
	if !f.c.Over() || f.c.Reason() != EndTimeout {
		t.Fatalf("over = %v reason = %q", f.c.Over(), f.c.Reason())
	}
	if f.c.Remaining() != 0 {
		t.Errorf("remaining = %v, want 0", f.c.Remaining())
	}

	f.c.Update(1)
	f.c.Update(1)
	f.c.HandleContact(TagFinish)
	f.tasks.Poll(100)
	if f.board.submits != 1 || len(f.pres.results) != 1 {
		t.Errorf("submits = %d results = %d, want exactly one each", f.board.submits, len(f.pres.results))
	}
	if f.player.disabled != 1 {
		t.Errorf("disabled %d times", f.player.disabled)
	}
	if f.c.Remaining() != 0 {
		t.Errorf("remaining went negative: %v", f.c.Remaining())
	}
}

func TestCountdownOvershootClampsToZero(t *testing.T) {
	f := newFixture(ModeTimeTrial)
	f.c.Update(500)
	if f.c.Remaining() != 0 || !f.c.Over() {
		t.Errorf("remaining = %v over = %v", f.c.Remaining(), f.c.Over())
	}
}

func TestEndlessHasNoTimer(t *testing.T) {
	f := newFixture(ModeEndless)
	f.c.Update(10000)
	if f.c.Over() {
		t.Error("endless run timed out")
	}
	if f.c.Elapsed() != 10000 {
		t.Errorf("elapsed = %v", f.c.Elapsed())
	}
}

func TestFinishAfterDelay(t *testing.T) {
	f := newFixture(ModeTimeTrial)
	f.c.HandleContact(TagFinish)
	f.c.HandleContact(TagFinish)

	if f.player.disabled != 0 || f.c.Over() {
		t.Fatal("finish ended immediately")
	}
	f.tasks.Poll(2)
	if !f.c.Over() || f.c.Reason() != EndFinish || f.player.disabled != 1 {
		t.Errorf("over = %v reason = %q disabled = %d", f.c.Over(), f.c.Reason(), f.player.disabled)
	}
	finishes := 0
	for _, e := range f.pres.effects {
		if e == EffectFinish {
			finishes++
		}
	}
	if finishes != 1 {
		t.Errorf("finish effect played %d times", finishes)
	}
}

func TestPickups(t *testing.T) {
	f := newFixture(ModeEndless)
	f.c.HandleContact(TagExtraLife)
	f.c.HandleContact(TagShield)
	f.c.HandleContact(TagSpeedBoost)

	if f.player.lives != 1 || f.player.shields != 1 || f.player.boosts != 1 {
		t.Errorf("player = %+v", f.player)
	}
	want := []Effect{EffectPickupExtraLife, EffectPickupShield, EffectPickupSpeedBoost}
	if len(f.pres.effects) != len(want) {
		t.Fatalf("effects = %v", f.pres.effects)
	}
	for i := range want {
		if f.pres.effects[i] != want[i] {
			t.Errorf("effect %d = %v, want %v", i, f.pres.effects[i], want[i])
		}
	}
}

func TestEndRecordsHighScoreAndLeaderboard(t *testing.T) {
	f := newFixture(ModeEndless)
	f.prefs.SetString(storage.KeyPlayerName, "Ana")
	f.prefs.SetInt(storage.KeyHighScore, 100)
	f.scorer.score = 5000
	f.scorer.tricks = 3
	f.scorer.mark = 40
	f.c.Reset(10)

	f.c.HandleContact(TagFall)

	r, ok := f.c.Result()
	if !ok {
		t.Fatal("no result")
	}
	if !r.NewHighScore || r.HighScore != 5000 {
		t.Errorf("high score = %d new = %v", r.HighScore, r.NewHighScore)
	}
	if high, _ := f.prefs.GetInt(storage.KeyHighScore, 0); high != 5000 {
		t.Errorf("stored high score = %d", high)
	}
	if r.Player != "Ana" || r.Rank != 1 || r.Distance != 30 || r.Tricks != 3 {
		t.Errorf("result = %+v", r)
	}
	if len(f.pres.results) != 1 || f.pres.results[0].Score != 5000 {
		t.Errorf("presented = %+v", f.pres.results)
	}
}

func TestLowerScoreKeepsHighScore(t *testing.T) {
	f := newFixture(ModeEndless)
	f.prefs.SetInt(storage.KeyHighScore, 900)
	f.scorer.score = 10

	f.c.HandleContact(TagFall)
	r, _ := f.c.Result()
	if r.NewHighScore || r.HighScore != 900 {
		t.Errorf("result = %+v", r)
	}
	if high, _ := f.prefs.GetInt(storage.KeyHighScore, 0); high != 900 {
		t.Errorf("stored high score = %d", high)
	}
	if r.Player != "Player" {
		t.Errorf("player = %q, want default", r.Player)
	}
}

func TestNilPresenterIsNoop(t *testing.T) {
	var buf bytes.Buffer
	c := New(config.DefaultConfig().Run, ModeEndless, Deps{
		Player: &fakePlayer{},
		Scorer: &fakeScorer{},
		Logger: log.New(&buf),
	})
	c.HandleContact(TagFall)
	if !c.Over() {
		t.Error("run did not end")
	}
	if !bytes.Contains(buf.Bytes(), []byte("no presenter")) {
		t.Errorf("missing diagnostic: %q", buf.String())
	}
}

func TestModePrefMapping(t *testing.T) {
	if ModeFromPref(1) != ModeEndless {
		t.Error("1 should be endless")
	}
	for _, v := range []int{0, 2, -1} {
		if ModeFromPref(v) != ModeTimeTrial {
			t.Errorf("%d should be time trial", v)
		}
	}
	if ModeEndless.PrefValue() != 1 || ModeFromPref(ModeTimeTrial.PrefValue()) != ModeTimeTrial {
		t.Error("PrefValue does not round trip")
	}
}

func TestHazardsIgnoredAfterFinish(t *testing.T) {
	f := newFixture(ModeTimeTrial)
	f.c.HandleContact(TagFinish)
	f.c.HandleContact(TagGround)
	f.c.HandleContact(TagFall)
	if f.c.Over() || f.player.disabled != 0 {
		t.Fatal("hazard after finish ended the run")
	}
	f.tasks.Poll(2)
	if f.c.Reason() != EndFinish {
		t.Errorf("reason = %q, want finish", f.c.Reason())
	}
}
