package cardstack

// Placement is a card paired with the parameters for drawing it.
type Placement struct {
	Card     Card
	Position int
	Params   Params
}

// Params are the visual parameters of one stack position.
type Params struct {
	VerticalOffset  float64
	Scale           float64
	RotationDegrees float64
	StackOrder      int
	Interactive     bool
	Gradient        string
}

// rotationStep is the extra tilt, in degrees, per position behind the front.
const rotationStep = 2.0

var palette = map[int]string{
	1: "linear-gradient(90deg, #E0DEFE 0%, #EDEEF0 54.56%, #EFEFFF 100%)",
	2: "linear-gradient(90deg, #FFF4E6 0%, #FEF8F0 54.56%, #FFFBF5 100%)",
	3: "linear-gradient(90deg, #FFE8E8 0%, #FFF0F0 54.56%, #FFF8F8 100%)",
	4: "linear-gradient(90deg, #E0F5F0 0%, #E8F8F5 54.56%, #F0FBF8 100%)",
}

// Gradient returns the background for a palette key, or the first entry for unknown keys.
func Gradient(key int) string {
	if g, ok := palette[key]; ok {
		return g
	}
	return palette[1]
}

// Derive computes the parameters for position out of total cards.
func Derive(position, total int, offsetStep, scaleStep float64, paletteKey int) Params {
	p := float64(position)
	rotation := 0.0
	if position > 0 {
		rotation = p * rotationStep
	}
	return Params{
		VerticalOffset:  0 - p*offsetStep, // +0 rather than -0 at the front
		Scale:           1 - p*scaleStep,
		RotationDegrees: rotation,
		StackOrder:      total - position,
		Interactive:     position == 0,
		Gradient:        Gradient(paletteKey),
	}
}

// TabIndex is the focus order for the card: only the front card is tab-reachable.
func (p Params) TabIndex() int {
	if p.Interactive {
		return 0
	}
	return -1
}
