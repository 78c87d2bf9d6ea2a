package display

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitafetch/internal/collector"
	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/render"
	"github.com/Guliveer/vitafetch/internal/report"
)

// fakeUnit emits its values in field order after an optional delay per
// field. A nil value is a probe that fails.
type fakeUnit struct {
	name   string
	values map[report.Field]models.Value
	delay  time.Duration
}

func (u *fakeUnit) Name() string { return u.name }
func (u *fakeUnit) IsAvailable() bool { return true }

func (u *fakeUnit) Fields() report.FieldSet {
	var fs report.FieldSet
	for f := range u.values {
		fs = fs.With(f)
	}
	return fs
}

func (u *fakeUnit) Collect(ctx context.Context, need report.FieldSet, emit collector.Emitter) {
	for _, f := range need.Fields() {
		if u.delay > 0 {
			select {
			case <-time.After(u.delay):
			case <-ctx.Done():
				return
			}
		}
		if v := u.values[f]; v != nil && !emit(f, v) {
			return
		}
	}
}

func identity() *fakeUnit {
	return &fakeUnit{name: "host", values: map[report.Field]models.Value{
		report.FieldUser:     models.Text("ada"),
		report.FieldHostname: models.Text("engine"),
		report.FieldOS:       models.Text("Haiku R1"),
	}}
}

func newRegistry(units ...collector.Unit) *collector.Registry {
	r := collector.NewRegistry(nil)
	for _, u := range units {
		r.Register(u)
	}
	return r
}

func newDriver(out *bytes.Buffer, enabled report.FieldSet, progressive bool, states *[]State) *Driver {
	r := render.New(render.NewPalette(false), render.Options{Gap: 2})
	opts := Options{
		Progressive: progressive,
		Interval:    5 * time.Millisecond,
		SmallLogo:   true,
		GOOS:        "plan9",
	}
	if states != nil {
		opts.OnState = func(s State) { *states = append(*states, s) }
	}
	return New(out, r, enabled, opts, nil)
}

var eraseRe = regexp.MustCompile(`\x1b\[(\d+)A\x1b\[0J`)

// lastFrame returns the text written after the final erase sequence with
// cursor visibility sequences removed.
func lastFrame(out string) string {
	out = strings.NewReplacer("\x1b[?25l", "", "\x1b[?25h", "").Replace(out)
	locs := eraseRe.FindAllStringIndex(out, -1)
	if len(locs) == 0 {
		return out
	}
	return out[locs[len(locs)-1][1]:]
}

// infoColumn is where info text starts beside the small generic logo: seven
// cells of art plus the two-space gap.
const infoColumn = 9

func infoLines(frame string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(frame, "\n"), "\n") {
		if len(line) > infoColumn {
			out = append(out, line[infoColumn:])
		}
	}
	return out
}

func TestStatic_ScenarioB(t *testing.T) {
	cpu := &fakeUnit{name: "cpu", values: map[report.Field]models.Value{report.FieldCPU: nil}}
	reg := newRegistry(identity(), cpu)
	enabled := report.NewFieldSet(report.FieldCPU)

	var out bytes.Buffer
	var states []State
	rep, err := newDriver(&out, enabled, false, &states).Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	require.NoError(t, err)

	assert.Equal(t, []State{Idle, Rendering, Done}, states)
	assert.Equal(t, 1, strings.Count(out.String(), "CPU: Unknown"))
	assert.NotContains(t, out.String(), "\x1b[", "static output has no control sequences")
	assert.False(t, rep.Populated().Has(report.FieldCPU))
	assert.True(t, report.Complete(rep, report.Required()))
}

func TestProgressive_ScenarioB(t *testing.T) {
	cpu := &fakeUnit{name: "cpu", values: map[report.Field]models.Value{report.FieldCPU: nil}, delay: 10 * time.Millisecond}
	reg := newRegistry(identity(), cpu)
	enabled := report.NewFieldSet(report.FieldCPU)

	var out bytes.Buffer
	var states []State
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = newDriver(&out, enabled, true, &states).Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progressive driver did not terminate after a failed probe")
	}
	require.NoError(t, err)
	assert.NotContains(t, lastFrame(out.String()), "CPU:")
	assert.Contains(t, lastFrame(out.String()), "OS: Haiku R1")
	assert.Equal(t, Done, states[len(states)-1])
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[?25h"), "cursor restored")
}

func TestProgressive_ScenarioA(t *testing.T) {
	reg := newRegistry(identity())
	enabled := report.NewFieldSet(report.FieldOS, report.FieldHostname)

	var out bytes.Buffer
	rep, err := newDriver(&out, enabled, true, nil).Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"ada@engine", "----------", "OS: Haiku R1"}, infoLines(lastFrame(out.String())))
	assert.True(t, report.Complete(rep, enabled))
}

// Each erase sequence moves up exactly as many lines as the frame before it.
func TestProgressive_RedrawLineCount(t *testing.T) {
	hw := &fakeUnit{name: "hw", delay: 15 * time.Millisecond, values: map[report.Field]models.Value{
		report.FieldCPU:    models.CPU{Model: "Ryzen 5", Cores: 6, Threads: 12},
		report.FieldGPU:    models.List{"Radeon 780M", "GeForce RTX 4060", "Arc A380"},
		report.FieldMemory: models.Usage{Used: 2 << 30, Total: 8 << 30},
		report.FieldKernel: models.Text("6.9.3"),
	}}
	reg := newRegistry(identity(), hw)
	enabled := report.NewFieldSet(report.FieldCPU, report.FieldGPU, report.FieldMemory, report.FieldKernel)

	var out bytes.Buffer
	_, err := newDriver(&out, enabled, true, nil).Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	require.NoError(t, err)

	s := strings.NewReplacer("\x1b[?25l", "", "\x1b[?25h", "").Replace(out.String())
	matches := eraseRe.FindAllStringSubmatchIndex(s, -1)
	require.NotEmpty(t, matches, "several frames were drawn")

	prev := 0
	heights := map[int]bool{}
	for _, m := range matches {
		n, err := strconv.Atoi(s[m[2]:m[3]])
		require.NoError(t, err)
		assert.Equal(t, strings.Count(s[prev:m[0]], "\n"), n)
		heights[n] = true
		prev = m[1]
	}
	assert.Greater(t, len(heights), 1, "frames changed height as fields arrived")
}

func TestProgressive_SkipsIdenticalFrames(t *testing.T) {
	results := make(chan report.Result, 3)
	results <- report.Result{Unit: "host", Field: report.FieldUser, Value: models.Text("ada")}
	results <- report.Result{Unit: "host", Field: report.FieldHostname, Value: models.Text("engine")}
	results <- report.Result{Unit: "host", Field: report.FieldOS, Value: models.Text("Haiku R1")}
	go func() {
		time.Sleep(40 * time.Millisecond)
		close(results)
	}()

	var out bytes.Buffer
	var states []State
	_, err := newDriver(&out, report.NewFieldSet(report.FieldGPU), true, &states).Run(context.Background(), results)
	require.NoError(t, err)

	assert.Empty(t, eraseRe.FindAllString(out.String(), -1))
	assert.Contains(t, states, WaitingForNextTick)
	assert.Equal(t, 1, strings.Count(out.String(), "OS: Haiku R1"))
}

func TestProgressive_Cancelled(t *testing.T) {
	results := make(chan report.Result, 1)
	results <- report.Result{Unit: "host", Field: report.FieldOS, Value: models.Text("Haiku R1")}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	var out bytes.Buffer
	rep, err := newDriver(&out, report.NewFieldSet(), true, nil).Run(ctx, results)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "Haiku R1", rep.Text(report.FieldOS))
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[?25h"))
}

func TestStatic_Cancelled(t *testing.T) {
	results := make(chan report.Result)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := newDriver(&out, report.NewFieldSet(), false, nil).Run(ctx, results)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "OS: Unknown")
}

// Snapshots taken while results stream in only ever grow, and a field keeps
// its first value.
func TestCollect_WriteOnceAndMonotonic(t *testing.T) {
	results := make(chan report.Result, 4)
	results <- report.Result{Unit: "host", Field: report.FieldOS, Value: models.Text("Haiku R1")}
	results <- report.Result{Unit: "rogue", Field: report.FieldOS, Value: models.Text("BeOS")}
	results <- report.Result{Unit: "hw", Field: report.FieldKernel, Value: models.CPU{}}
	results <- report.Result{Unit: "hw", Field: report.FieldKernel, Value: models.Text("hrev57937")}
	close(results)

	rep, err := Collect(context.Background(), results, nil)
	require.NoError(t, err)
	assert.Equal(t, "Haiku R1", rep.Text(report.FieldOS))
	assert.Equal(t, "hrev57937", rep.Text(report.FieldKernel))
}

func TestWriteJSON(t *testing.T) {
	rep := report.New()
	require.NoError(t, rep.Set(report.FieldOS, models.Text("Haiku R1")))
	require.NoError(t, rep.Set(report.FieldUptime, models.Duration(90*time.Second)))
	require.NoError(t, rep.Set(report.FieldMemory, models.Usage{Used: 1, Total: 4}))
	require.NoError(t, rep.Set(report.FieldBattery, models.Battery{Percent: 50, Status: "Charging"}))

	var out bytes.Buffer
	require.NoError(t, WriteJSON(&out, rep, report.NewFieldSet(report.FieldUptime, report.FieldMemory)))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Haiku R1", got["os"])
	assert.Equal(t, float64(90), got["uptime"])
	assert.Equal(t, map[string]interface{}{"used": float64(1), "total": float64(4), "percent": float64(25)}, got["memory"])
	assert.NotContains(t, got, "battery", "fields that are not enabled are left out")
	assert.NotContains(t, got, "hostname")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "waiting", WaitingForNextTick.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func tallDriver(out *bytes.Buffer, enabled report.FieldSet, maxHeight int) *Driver {
	r := render.New(render.NewPalette(false), render.Options{Gap: 2})
	return New(out, r, enabled, Options{
		Progressive: true,
		Interval:    5 * time.Millisecond,
		SmallLogo:   true,
		GOOS:        "plan9",
		MaxHeight:   maxHeight,
	}, nil)
}

// Once a frame no longer fits the terminal, nothing taller than the screen
// is ever erased and the final frame is drawn once, complete.
func TestProgressive_FrameTallerThanTerminal(t *testing.T) {
	hw := &fakeUnit{name: "hw", delay: 15 * time.Millisecond, values: map[report.Field]models.Value{
		report.FieldKernel: models.Text("6.9.3"),
		report.FieldCPU:    models.CPU{Model: "Ryzen 5", Cores: 6, Threads: 12},
		report.FieldGPU:    models.List{"Radeon 780M", "GeForce RTX 4060", "Arc A380"},
		report.FieldMemory: models.Usage{Used: 2 << 30, Total: 8 << 30},
	}}
	reg := newRegistry(identity(), hw)
	enabled := report.NewFieldSet(report.FieldKernel, report.FieldCPU, report.FieldGPU, report.FieldMemory)

	const maxHeight = 6
	var out bytes.Buffer
	d := tallDriver(&out, enabled, maxHeight)
	rep, err := d.Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	require.NoError(t, err)
	assert.Equal(t, Done, d.State())
	assert.True(t, report.Complete(rep, enabled))

	for _, m := range eraseRe.FindAllStringSubmatch(out.String(), -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Less(t, n, maxHeight, "cursor-up never reaches past the top of the screen")
	}

	last := lastFrame(out.String())
	assert.Equal(t, []string{
		"ada@engine",
		"----------",
		"OS: Haiku R1",
		"Kernel: 6.9.3",
		"CPU: Ryzen 5 (6C/12T)",
		"GPU: Radeon 780M",
		"GPU: GeForce RTX 4060",
		"GPU: Arc A380",
		"Memory: 2.0 GiB / 8.0 GiB (25%)",
	}, infoLines(last))
	assert.Equal(t, 1, strings.Count(out.String(), "GPU: Arc A380"), "tall frames are drawn once")
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[?25h"))
}

func TestProgressive_FirstFrameTallerThanTerminal(t *testing.T) {
	reg := newRegistry(identity())
	enabled := report.NewFieldSet(report.FieldOS)

	var out bytes.Buffer
	d := tallDriver(&out, enabled, 2)
	_, err := d.Run(context.Background(), reg.Dispatch(context.Background(), enabled, nil))
	require.NoError(t, err)

	assert.Empty(t, eraseRe.FindAllString(out.String(), -1))
	assert.Equal(t, 1, strings.Count(out.String(), "OS: Haiku R1"))
	assert.Equal(t, Done, d.State())
}
