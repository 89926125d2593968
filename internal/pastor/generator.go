package pastor

import (
	rand "math/rand/v2"

	"github.com/lox/pastortable/internal/randutil"
)

const (
	// MaxStartingWealth bounds generated wealth, exclusive.
	MaxStartingWealth = 1000
	// MaxStartingFollowers bounds generated followers, exclusive.
	MaxStartingFollowers = 500
)

var givenNames = []string{
	"Ana", "Luis", "Carlos", "María", "Juan", "Sofía", "Pedro", "Lucía",
	"Jorge", "Elena", "Valentina", "Andrés", "Camila", "Mateo", "Isabella",
	"Sebastián", "Gabriela", "Felipe", "Paula", "Ricardo", "Daniela", "Tomás",
	"Fernanda", "Alejandro", "Carolina", "Martín", "Josefina", "Esteban",
	"Patricia", "Manuel", "Adriana", "Simón", "Catalina", "Héctor", "Verónica",
	"Ramiro", "Victoria", "Rodrigo", "Claudia", "David", "Florencia", "Ignacio",
	"Natalia", "Mauricio", "Silvia", "Benjamín", "Juliana", "Rafael", "Olga",
	"Hernán", "Gloria", "Diego", "Lorena", "Beatriz", "Óscar", "Mónica",
	"Eduardo", "Mariana", "Guillermo", "Renata", "Pablo", "Nicolás", "Rosa",
	"Teresa", "Hugo", "Emilia", "Clara", "Ruth", "Samuel", "Pilar",
}

var surnames = []string{
	"Gómez", "Rodríguez", "López", "Martínez", "Pérez", "García", "Sánchez",
	"Ramírez", "Cruz", "Flores", "Rivera", "Torres", "Vargas", "Jiménez",
	"Morales", "Ortiz", "Silva", "Rojas", "Castro", "Mendoza", "Suárez",
	"Díaz", "Aguilar", "Guerrero", "Herrera", "Navarro", "Domínguez",
	"Cabrera", "Ramos", "Vega", "Campos", "Acosta", "Soto", "Reyes", "Molina",
	"Chávez", "Fuentes", "Ponce", "Valencia", "Parra", "Orozco", "Estrada",
	"Mejía", "Salazar", "Arias", "Montoya", "Peña", "Rincón", "Palacios",
	"Lara", "Tapia", "Zamora", "Paredes", "León", "Bravo", "Figueroa",
}

// Generator creates agents with random names, resources and professions.
// Identifiers increase monotonically from 1.
type Generator struct {
	rng         *rand.Rand
	professions []Profession
	nextID      AgentID
}

// NewGenerator creates a generator drawing from rng. An empty professions
// list means the full vocabulary.
func NewGenerator(rng *rand.Rand, professions []Profession) *Generator {
	if len(professions) == 0 {
		professions = Vocabulary
	}
	return &Generator{rng: rng, professions: professions}
}

// Next creates one agent.
func (g *Generator) Next() *Agent {
	g.nextID++
	name := randutil.Pick(g.rng, givenNames) + " " + randutil.Pick(g.rng, surnames)
	return NewAgent(
		g.nextID,
		name,
		g.rng.IntN(MaxStartingWealth),
		g.rng.IntN(MaxStartingFollowers),
		randutil.Pick(g.rng, g.professions),
	)
}

// Generate creates n agents.
func (g *Generator) Generate(n int) []*Agent {
	agents := make([]*Agent, 0, n)
	for range n {
		agents = append(agents, g.Next())
	}
	return agents
}
