package ai

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"snake-game/game/types"
)

const (
	// Network shape
	InputFeatures   = 10 // food x one-hot (3), food y one-hot (3), danger per direction (4)
	OutputActions   = 4  // one value per types.Direction
	HiddenLayerSize = 24

	// Training
	DQNLearningRate  = 0.001
	Gamma            = 0.9
	BatchSize        = 32
	ReplayBufferSize = 5000
	TargetSyncSteps  = 100 // train steps between target network refreshes
	GradientClip     = 0.5

	// Exploration
	InitialEpsilon = 1.0
	MinEpsilon     = 0.05
	EpsilonDecay   = 0.99 // per finished episode
)

// Features encodes a State as network input.
func Features(s State) []float64 {
	f := make([]float64, InputFeatures)
	f[s.RelativeFoodDir[0]+1] = 1
	f[3+s.RelativeFoodDir[1]+1] = 1
	for d, danger := range s.DangerDirs {
		if danger {
			f[6+d] = 1
		}
	}
	return f
}

// Transition is one observed step.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// ReplayBuffer keeps the most recent transitions for training.
type ReplayBuffer struct {
	buffer   []Transition
	maxSize  int
	position int
	size     int
	rng      Rand
}

func NewReplayBuffer(maxSize int, rng Rand) *ReplayBuffer {
	return &ReplayBuffer{
		buffer:  make([]Transition, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Add stores t, overwriting the oldest transition once full.
func (b *ReplayBuffer) Add(t Transition) {
	b.buffer[b.position] = t
	b.position = (b.position + 1) % b.maxSize
	if b.size < b.maxSize {
		b.size++
	}
}

func (b *ReplayBuffer) Len() int {
	return b.size
}

// Sample draws up to batchSize transitions with replacement.
func (b *ReplayBuffer) Sample(batchSize int) []Transition {
	batchSize = min(batchSize, b.size)
	batch := make([]Transition, batchSize)
	for i := range batch {
		batch[i] = b.buffer[b.rng.Intn(b.size)]
	}
	return batch
}

// qnet is a one hidden layer network over a fixed batch size. Training
// nets also carry the loss, its gradients and a solver.
type qnet struct {
	g          *gorgonia.ExprGraph
	batch      int
	x, y       *gorgonia.Node
	pred       *gorgonia.Node
	learnables gorgonia.Nodes
	vm         gorgonia.VM
	solver     gorgonia.Solver
}

func newQNet(batch int, train bool) (*qnet, error) {
	g := gorgonia.NewGraph()
	n := &qnet{g: g, batch: batch}

	n.x = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, InputFeatures),
		gorgonia.WithName("x"))
	w1 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(InputFeatures, HiddenLayerSize),
		gorgonia.WithName("w1"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	b1 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, HiddenLayerSize),
		gorgonia.WithName("b1"),
		gorgonia.WithInit(gorgonia.Zeroes()))
	w2 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(HiddenLayerSize, OutputActions),
		gorgonia.WithName("w2"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	b2 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, OutputActions),
		gorgonia.WithName("b2"),
		gorgonia.WithInit(gorgonia.Zeroes()))
	n.learnables = gorgonia.Nodes{w1, b1, w2, b2}

	// Biases are spread over the batch as ones(batch,1) x b.
	ones := make([]float64, batch)
	for i := range ones {
		ones[i] = 1
	}
	onesNode := gorgonia.NodeFromAny(g,
		tensor.New(tensor.WithShape(batch, 1), tensor.WithBacking(ones)),
		gorgonia.WithName("ones"))

	h := gorgonia.Must(gorgonia.Mul(n.x, w1))
	h = gorgonia.Must(gorgonia.Add(h, gorgonia.Must(gorgonia.Mul(onesNode, b1))))
	h = gorgonia.Must(gorgonia.Rectify(h))
	out := gorgonia.Must(gorgonia.Mul(h, w2))
	n.pred = gorgonia.Must(gorgonia.Add(out, gorgonia.Must(gorgonia.Mul(onesNode, b2))))

	if !train {
		n.vm = gorgonia.NewTapeMachine(g)
		return n, nil
	}

	n.y = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, OutputActions),
		gorgonia.WithName("y"))
	diff := gorgonia.Must(gorgonia.Sub(n.pred, n.y))
	loss := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff))))
	if _, err := gorgonia.Grad(loss, n.learnables...); err != nil {
		return nil, fmt.Errorf("building gradients: %w", err)
	}
	n.vm = gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(n.learnables...))
	n.solver = gorgonia.NewAdamSolver(
		gorgonia.WithLearnRate(DQNLearningRate),
		gorgonia.WithClip(GradientClip))
	return n, nil
}

// forward returns batch x OutputActions values for the given inputs.
func (n *qnet) forward(input []float64) ([]float64, error) {
	defer n.vm.Reset()
	x := tensor.New(tensor.WithShape(n.batch, InputFeatures), tensor.WithBacking(input))
	if err := gorgonia.Let(n.x, x); err != nil {
		return nil, err
	}
	if err := n.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward pass: %w", err)
	}
	values := n.pred.Value().Data().([]float64)
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// train takes one solver step towards targets.
func (n *qnet) train(input, targets []float64) error {
	defer n.vm.Reset()
	x := tensor.New(tensor.WithShape(n.batch, InputFeatures), tensor.WithBacking(input))
	y := tensor.New(tensor.WithShape(n.batch, OutputActions), tensor.WithBacking(targets))
	if err := gorgonia.Let(n.x, x); err != nil {
		return err
	}
	if err := gorgonia.Let(n.y, y); err != nil {
		return err
	}
	if err := n.vm.RunAll(); err != nil {
		return fmt.Errorf("backprop: %w", err)
	}
	return n.solver.Step(gorgonia.NodesToValueGrads(n.learnables))
}

// weights returns the learnable values by node name.
func (n *qnet) weights() map[string][]float64 {
	w := make(map[string][]float64, len(n.learnables))
	for _, node := range n.learnables {
		data := node.Value().Data().([]float64)
		w[node.Name()] = append([]float64(nil), data...)
	}
	return w
}

// setWeights overwrites the learnable values in place.
func (n *qnet) setWeights(w map[string][]float64) error {
	for _, node := range n.learnables {
		src, ok := w[node.Name()]
		dst := node.Value().Data().([]float64)
		if !ok || len(src) != len(dst) {
			return fmt.Errorf("weights for %s missing or mis-sized", node.Name())
		}
		copy(dst, src)
	}
	return nil
}

// DQN is a deep Q-network policy. The online net trains on replayed
// batches; a batch-one copy of it picks moves and a lagging target net
// values next states.
type DQN struct {
	online *qnet
	policy *qnet
	target *qnet
	buffer *ReplayBuffer

	Discount     float64
	Epsilon      float64
	MinEpsilon   float64
	EpsilonDecay float64
	Episodes     int

	steps   int
	trained bool
	path    string
	rng     Rand
}

// NewDQN returns a network persisted at path. Saved weights are loaded when
// present. An empty path never touches disk.
func NewDQN(path string, rng Rand) (*DQN, error) {
	online, err := newQNet(BatchSize, true)
	if err != nil {
		return nil, err
	}
	policy, err := newQNet(1, false)
	if err != nil {
		return nil, err
	}
	target, err := newQNet(1, false)
	if err != nil {
		return nil, err
	}

	d := &DQN{
		online:       online,
		policy:       policy,
		target:       target,
		buffer:       NewReplayBuffer(ReplayBufferSize, rng),
		Discount:     Gamma,
		Epsilon:      InitialEpsilon,
		MinEpsilon:   MinEpsilon,
		EpsilonDecay: EpsilonDecay,
		path:         path,
		rng:          rng,
	}
	if err := d.sync(true); err != nil {
		return nil, err
	}
	if path != "" {
		if err := d.LoadWeights(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return d, err
		}
	}
	return d, nil
}

// sync copies the online weights into the policy net, and into the target
// net as well when target is set.
func (d *DQN) sync(target bool) error {
	w := d.online.weights()
	if err := d.policy.setWeights(w); err != nil {
		return err
	}
	if target {
		return d.target.setWeights(w)
	}
	return nil
}

// Choose explores with probability Epsilon, otherwise takes the move with
// the highest predicted value. Before any training, or after a failed pass,
// ok is false.
func (d *DQN) Choose(state State, allowed []types.Direction) (types.Direction, bool) {
	if len(allowed) == 0 {
		return types.Up, false
	}
	if d.rng.Float64() < d.Epsilon {
		return allowed[d.rng.Intn(len(allowed))], true
	}
	if !d.trained {
		return types.Up, false
	}
	q, err := d.policy.forward(Features(state))
	if err != nil {
		log.Printf("dqn: %v", err)
		return types.Up, false
	}
	best := allowed[0]
	for _, dir := range allowed[1:] {
		if q[dir] > q[best] {
			best = dir
		}
	}
	return best, true
}

// Learn stores the step and trains on a replayed batch once enough steps
// have been seen.
func (d *DQN) Learn(state State, action types.Direction, reward float64, next State, done bool) {
	d.buffer.Add(Transition{
		State:     Features(state),
		Action:    int(action),
		Reward:    reward,
		NextState: Features(next),
		Done:      done,
	})
	if d.buffer.Len() < BatchSize {
		return
	}
	if err := d.trainOnBatch(d.buffer.Sample(BatchSize)); err != nil {
		log.Printf("dqn: %v", err)
		return
	}
	d.trained = true
	d.steps++
	if err := d.sync(d.steps%TargetSyncSteps == 0); err != nil {
		log.Printf("dqn: %v", err)
	}
}

// trainOnBatch regresses the taken action's value towards
// reward + Discount * max target value; other actions keep their current
// prediction and so contribute no loss.
func (d *DQN) trainOnBatch(batch []Transition) error {
	states := make([]float64, 0, len(batch)*InputFeatures)
	targets := make([]float64, 0, len(batch)*OutputActions)
	for _, t := range batch {
		q, err := d.policy.forward(t.State)
		if err != nil {
			return err
		}
		y := t.Reward
		if !t.Done {
			next, err := d.target.forward(t.NextState)
			if err != nil {
				return err
			}
			maxQ := math.Inf(-1)
			for _, v := range next {
				maxQ = max(maxQ, v)
			}
			y += d.Discount * maxQ
		}
		q[t.Action] = y
		states = append(states, t.State...)
		targets = append(targets, q...)
	}
	return d.online.train(states, targets)
}

// Predict returns the policy net's value for every direction.
func (d *DQN) Predict(state State) ([]float64, error) {
	return d.policy.forward(Features(state))
}

// EndEpisode decays exploration.
func (d *DQN) EndEpisode() {
	d.Episodes++
	d.Epsilon = math.Max(d.MinEpsilon, d.Epsilon*d.EpsilonDecay)
}

func (d *DQN) Save() error {
	if d.path == "" {
		return nil
	}
	return d.SaveWeights(d.path)
}

// SaveWeights writes the online weights with gob.
func (d *DQN) SaveWeights(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(d.online.weights()); err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	return nil
}

// LoadWeights restores weights saved by SaveWeights into every net.
func (d *DQN) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	var w map[string][]float64
	if err := gob.NewDecoder(f).Decode(&w); err != nil {
		return fmt.Errorf("failed to decode weights: %w", err)
	}
	if err := d.online.setWeights(w); err != nil {
		return err
	}
	if err := d.sync(true); err != nil {
		return err
	}
	d.trained = true
	return nil
}
