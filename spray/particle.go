package spray

// Particle defines the general components of the particle system.
type Particle struct {
	x, y   float64
	vx, vy float64
	life   float64
}

// NewParticle spawns a new particle at coordinates defined by {x, y}
// moving with velocity {vx, vy} for life ticks.
func NewParticle(x, y, vx, vy, life float64) Particle {
	return Particle{x: x, y: y, vx: vx, vy: vy, life: life}
}

// GetX retrieve the particle value at {x} position.
func (p Particle) GetX() float64 {
	return p.x
}

// GetY retrieve the particle value at {y} position.
func (p Particle) GetY() float64 {
	return p.y
}

// GetVx get the particle velocity at {x} position.
func (p Particle) GetVx() float64 {
	return p.vx
}

// GetVy get the particle velocity at {y} position.
func (p Particle) GetVy() float64 {
	return p.vy
}

// GetLife get the remaining particle life, in ticks.
func (p Particle) GetLife() float64 {
	return p.life
}

// IsDead check if a particle ran out of life.
func (p Particle) IsDead() bool {
	return p.life <= 0
}

// advance moves the particle by its velocity and consumes one tick of life.
func (p *Particle) advance() {
	p.x += p.vx
	p.y += p.vy
	p.life--
}
