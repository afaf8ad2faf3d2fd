// Package seed generates the mock dataset the dashboard starts from when no
// persisted state exists.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/elevatos/internal/domain/model"
)

// Default generator configuration constants.
const (
	DefaultSeed = 42

	minBudget      = 100_000
	budgetSpread   = 900_000
	coordinateSpan = 10.0
	startYear      = 2024
	startMonths    = 6
	endYear        = 2025
	endMonths      = 12
	maxDay         = 28
)

var countries = []model.Country{
	{Code: "BR", Name: "Brasil", Flag: "🇧🇷", Coordinates: model.Coordinates{Lat: -14.235, Lng: -51.925}},
	{Code: "AR", Name: "Argentina", Flag: "🇦🇷", Coordinates: model.Coordinates{Lat: -38.416, Lng: -63.617}},
	{Code: "CL", Name: "Chile", Flag: "🇨🇱", Coordinates: model.Coordinates{Lat: -35.675, Lng: -71.543}},
	{Code: "CO", Name: "Colômbia", Flag: "🇨🇴", Coordinates: model.Coordinates{Lat: 4.571, Lng: -74.297}},
	{Code: "MX", Name: "México", Flag: "🇲🇽", Coordinates: model.Coordinates{Lat: 23.635, Lng: -102.553}},
}

// projects generated per country, in country order.
var projectCounts = map[string]int{"BR": 45, "AR": 32, "CL": 28, "CO": 21, "MX": 18}

var cities = map[string][]string{
	"BR": {"São Paulo", "Rio de Janeiro", "Brasília", "Salvador", "Belo Horizonte"},
	"AR": {"Buenos Aires", "Córdoba", "Rosario", "Mendoza", "La Plata"},
	"CL": {"Santiago", "Valparaíso", "Concepción", "La Serena", "Antofagasta"},
	"CO": {"Bogotá", "Medellín", "Cali", "Barranquilla", "Cartagena"},
	"MX": {"Ciudad de México", "Guadalajara", "Monterrey", "Puebla", "Tijuana"},
}

var managers = []string{
	"Carlos Silva", "Ana Costa", "João Santos", "Maria Oliveira", "Pedro Alves", "Lucia Ferreira",
}

var stageNotes = map[model.Status]string{
	model.StatusSales:         "Contrato assinado e aprovado",
	model.StatusManufacturing: "Peças em produção na fábrica",
	model.StatusInstallation:  "Equipe de instalação designada",
	model.StatusAfterSales:    "Suporte técnico ativo",
}

// Countries returns the markets in display order.
func Countries() []model.Country {
	out := make([]model.Country, len(countries))
	copy(out, countries)
	return out
}

// CountryByCode looks up a market by its code.
func CountryByCode(code string) (model.Country, bool) {
	for _, c := range countries {
		if c.Code == code {
			return c, true
		}
	}
	return model.Country{}, false
}

// Generator builds seed data from a deterministic random source.
type Generator struct {
	rng *rand.Rand
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the random seed. The same seed always yields the same dataset.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // mock data, not security sensitive
	}
}

// New creates a Generator seeded with DefaultSeed unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{rng: rand.New(rand.NewSource(DefaultSeed))} //nolint:gosec // mock data
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Projects generates the full project list. Ids are PROJ-0001 onwards in
// country order.
func (g *Generator) Projects() []model.Project {
	statuses := model.Statuses()
	projects := make([]model.Project, 0, 144)

	id := 1
	for _, country := range countries {
		for i := 0; i < projectCounts[country.Code]; i++ {
			status := statuses[g.rng.Intn(len(statuses))]
			progress := g.rng.Intn(100)
			budget := int64(g.rng.Intn(budgetSpread) + minBudget)
			cityList := cities[country.Code]
			city := cityList[g.rng.Intn(len(cityList))]

			projects = append(projects, model.Project{
				ID:          fmt.Sprintf("PROJ-%04d", id),
				Name:        fmt.Sprintf("Torre %s %d", city, i+1),
				Country:     country.Code,
				CountryName: country.Name,
				Flag:        country.Flag,
				City:        city,
				Status:      status,
				Progress:    progress,
				Budget:      budget,
				Manager:     managers[g.rng.Intn(len(managers))],
				StartDate:   g.date(startYear, startMonths),
				EndDate:     g.date(endYear, endMonths),
				Coordinates: model.Coordinates{
					Lat: country.Coordinates.Lat + (g.rng.Float64()-0.5)*coordinateSpan,
					Lng: country.Coordinates.Lng + (g.rng.Float64()-0.5)*coordinateSpan,
				},
				Stages:      Stages(status, progress),
				Attachments: attachments(),
			})
			id++
		}
	}

	return projects
}

func (g *Generator) date(year, months int) string {
	month := time.Month(g.rng.Intn(months) + 1)
	day := g.rng.Intn(maxDay) + 1
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
}

// Stages derives per-stage completion for a project currently at status:
// earlier stages are 100, later stages 0, the current one carries progress.
func Stages(status model.Status, progress int) map[model.Status]model.Stage {
	current := status.Index()
	out := make(map[model.Status]model.Stage, len(stageNotes))
	for i, st := range model.Statuses() {
		complete := 0
		switch {
		case i < current:
			complete = 100
		case i == current:
			complete = progress
		}
		out[st] = model.Stage{Complete: complete, Notes: stageNotes[st]}
	}
	return out
}

func attachments() []model.Attachment {
	return []model.Attachment{
		{Name: "Contrato.pdf", Size: "2.3 MB", Type: "pdf"},
		{Name: "Planta_Baixa.dwg", Size: "5.1 MB", Type: "dwg"},
		{Name: "Especificacoes.xlsx", Size: "1.2 MB", Type: "xlsx"},
	}
}

type feedbackTemplate struct {
	name, comment, suggestions, date string
	rating                           int
}

var feedbackTemplates = []feedbackTemplate{
	{"João Silva", "Excelente trabalho! A equipe foi muito profissional e entregou dentro do prazo.", "Melhorar a comunicação durante a fase de instalação.", "2024-03-15", 5},
	{"Maria Santos", "Bom serviço, mas houve alguns atrasos na fabricação.", "Fornecer atualizações mais frequentes sobre o progresso.", "2024-03-10", 4},
	{"Pedro Costa", "Projeto impecável do início ao fim. Recomendo!", "", "2024-03-08", 5},
	{"Ana Oliveira", "Qualidade excepcional dos elevadores instalados.", "Expandir o suporte pós-venda para finais de semana.", "2024-03-05", 5},
	{"Carlos Ferreira", "Satisfeito com o resultado final, apesar de pequenos contratempos.", "Melhorar o processo de aprovação de mudanças.", "2024-03-01", 4},
	{"Lucia Almeida", "Profissionais altamente qualificados. Trabalho excelente!", "Continuar com o mesmo padrão de qualidade.", "2024-02-28", 5},
}

// Feedback returns the seed reviews, most recent first, each pointing at one
// of the first projects.
func Feedback(projects []model.Project) []model.FeedbackEntry {
	out := make([]model.FeedbackEntry, 0, len(feedbackTemplates))
	for i, tpl := range feedbackTemplates {
		if i >= len(projects) {
			break
		}
		out = append(out, model.FeedbackEntry{
			ID:          i + 1,
			ProjectID:   projects[i].ID,
			ProjectName: projects[i].Name,
			Name:        tpl.name,
			Rating:      tpl.rating,
			Comment:     tpl.comment,
			Suggestions: tpl.suggestions,
			Date:        tpl.date,
		})
	}
	return out
}

// FeedbackStats is the initial review aggregate. It covers reviews collected
// before the seeded entries and is not derived from them.
func FeedbackStats() model.FeedbackStats {
	return model.FeedbackStats{TotalReviews: 234, AverageRating: 4.8}
}

// User is the default signed-in profile.
func User() model.UserProfile {
	return model.UserProfile{
		Name:        "Roberto Silva",
		Email:       "roberto.silva@elevatos.com",
		Role:        "Gerente de Projetos",
		Department:  "Operações",
		Avatar:      "RS",
		Permissions: "Administrador",
		Stats:       model.UserStats{TotalProjects: 28, Concluded: 22, Rating: 4.8},
	}
}

// MonthlyFigures is the six-month revenue series.
func MonthlyFigures() []model.MonthlyFigure {
	return []model.MonthlyFigure{
		{Month: "Out", Projects: 18, Revenue: 2_100_000, Costs: 1_400_000},
		{Month: "Nov", Projects: 22, Revenue: 2_600_000, Costs: 1_700_000},
		{Month: "Dez", Projects: 25, Revenue: 3_100_000, Costs: 2_000_000},
		{Month: "Jan", Projects: 28, Revenue: 3_500_000, Costs: 2_300_000},
		{Month: "Fev", Projects: 24, Revenue: 3_200_000, Costs: 2_100_000},
		{Month: "Mar", Projects: 27, Revenue: 3_800_000, Costs: 2_500_000},
	}
}

// CountryStats is the per-country KPI table.
func CountryStats() []model.CountryStat {
	return []model.CountryStat{
		{Country: "Brasil", Flag: "🇧🇷", Projects: 45, Revenue: 4_200_000, Satisfaction: 4.8},
		{Country: "Argentina", Flag: "🇦🇷", Projects: 32, Revenue: 2_800_000, Satisfaction: 4.7},
		{Country: "Chile", Flag: "🇨🇱", Projects: 28, Revenue: 2_400_000, Satisfaction: 4.9},
		{Country: "Colômbia", Flag: "🇨🇴", Projects: 21, Revenue: 1_900_000, Satisfaction: 4.6},
		{Country: "México", Flag: "🇲🇽", Projects: 18, Revenue: 1_700_000, Satisfaction: 4.7},
	}
}

// Activities is the recent-activity feed for the first projects.
func Activities(projects []model.Project) []model.Activity {
	tpl := []model.Activity{
		{ID: 1, Type: "update", Action: "Status atualizado para Fabricação", Time: "2 horas atrás", User: "Carlos Silva"},
		{ID: 2, Type: "new", Action: "Novo projeto criado", Time: "5 horas atrás", User: "Ana Costa"},
		{ID: 3, Type: "complete", Action: "Instalação concluída", Time: "1 dia atrás", User: "João Santos"},
		{ID: 4, Type: "feedback", Action: "Nova avaliação recebida (5★)", Time: "2 dias atrás", User: "Pedro Costa"},
		{ID: 5, Type: "update", Action: "Orçamento atualizado", Time: "3 dias atrás", User: "Maria Oliveira"},
	}
	out := make([]model.Activity, 0, len(tpl))
	for i, a := range tpl {
		if i >= len(projects) {
			break
		}
		a.Project = projects[i].Name
		out = append(out, a)
	}
	return out
}
