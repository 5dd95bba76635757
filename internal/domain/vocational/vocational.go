package vocational

import "errors"

// Interest areas the test scores against. Order matters: ties resolve to
// the earliest area.
const (
	AreaTecnologia = "tecnologia"
	AreaSaude      = "saude"
	AreaGestao     = "gestao"
	AreaDesign     = "design"
	AreaEducacao   = "educacao"
)

var areaOrder = []string{AreaTecnologia, AreaSaude, AreaGestao, AreaDesign, AreaEducacao}

// Labels for presenting areas.
var areaLabels = map[string]string{
	AreaTecnologia: "Tecnologia e Informática",
	AreaSaude:      "Saúde e Bem-Estar",
	AreaGestao:     "Gestão e Administração",
	AreaDesign:     "Design e Comunicação",
	AreaEducacao:   "Educação e Apoio Social",
}

// Option is one selectable answer and the areas it scores for.
type Option struct {
	Text   string         `json:"text"`
	Scores map[string]int `json:"-"`
}

// Question is one step of the test.
type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

var questions = []Question{
	{
		Text: "No tempo livre, o que prefere fazer?",
		Options: []Option{
			{Text: "Explorar programas e aplicações no computador", Scores: map[string]int{AreaTecnologia: 2}},
			{Text: "Cuidar de alguém ou aprender sobre o corpo humano", Scores: map[string]int{AreaSaude: 2}},
			{Text: "Organizar eventos ou gerir pequenos projectos", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Desenhar, fotografar ou editar conteúdos", Scores: map[string]int{AreaDesign: 2}},
			{Text: "Ensinar ou ajudar outras pessoas a aprender", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
	{
		Text: "Que disciplina mais gostava na escola?",
		Options: []Option{
			{Text: "Matemática e informática", Scores: map[string]int{AreaTecnologia: 2, AreaGestao: 1}},
			{Text: "Biologia e ciências", Scores: map[string]int{AreaSaude: 2}},
			{Text: "Economia", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Educação visual", Scores: map[string]int{AreaDesign: 2}},
			{Text: "Línguas e história", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
	{
		Text: "Num trabalho de grupo, qual é o seu papel natural?",
		Options: []Option{
			{Text: "Resolver os problemas técnicos", Scores: map[string]int{AreaTecnologia: 2}},
			{Text: "Garantir que todos estão bem", Scores: map[string]int{AreaSaude: 1, AreaEducacao: 1}},
			{Text: "Coordenar tarefas e prazos", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Tratar da apresentação e do visual", Scores: map[string]int{AreaDesign: 2}},
			{Text: "Explicar a matéria aos colegas", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
	{
		Text: "O que valoriza mais numa profissão?",
		Options: []Option{
			{Text: "Inovação e tecnologia de ponta", Scores: map[string]int{AreaTecnologia: 2}},
			{Text: "Impacto directo na vida das pessoas", Scores: map[string]int{AreaSaude: 2, AreaEducacao: 1}},
			{Text: "Progressão de carreira e liderança", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Liberdade criativa", Scores: map[string]int{AreaDesign: 2}},
			{Text: "Transmitir conhecimento", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
	{
		Text: "Como prefere trabalhar?",
		Options: []Option{
			{Text: "Em frente ao computador, com autonomia", Scores: map[string]int{AreaTecnologia: 2, AreaDesign: 1}},
			{Text: "Em contacto directo com pessoas", Scores: map[string]int{AreaSaude: 2, AreaEducacao: 1}},
			{Text: "Num escritório, com metas claras", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Num estúdio ou ambiente criativo", Scores: map[string]int{AreaDesign: 2}},
			{Text: "Numa sala com grupos", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
	{
		Text: "Que tipo de desafio o entusiasma mais?",
		Options: []Option{
			{Text: "Automatizar uma tarefa repetitiva", Scores: map[string]int{AreaTecnologia: 2}},
			{Text: "Ajudar alguém a recuperar", Scores: map[string]int{AreaSaude: 2}},
			{Text: "Tornar um negócio rentável", Scores: map[string]int{AreaGestao: 2}},
			{Text: "Criar uma marca do zero", Scores: map[string]int{AreaDesign: 2, AreaGestao: 1}},
			{Text: "Preparar uma aula que prenda a atenção", Scores: map[string]int{AreaEducacao: 2}},
		},
	},
}

// Questions returns the test, in presentation order.
func Questions() []Question {
	return questions
}

// AreaLabel returns the display name for an area.
func AreaLabel(area string) string {
	if l, ok := areaLabels[area]; ok {
		return l
	}
	return area
}

var ErrInvalidAnswers = errors.New("invalid answers")

// Result of scoring a full set of answers.
type Result struct {
	Scores          map[string]int `json:"scores"`
	RecommendedArea string         `json:"recommended_area"`
	AreaLabel       string         `json:"area_label"`
}

// Score takes one option index per question and sums the per-area weights.
// The recommended area is the highest total; ties resolve to the earliest
// area in presentation order, so results are deterministic.
func Score(answers []int) (Result, error) {
	if len(answers) != len(questions) {
		return Result{}, ErrInvalidAnswers
	}
	totals := make(map[string]int, len(areaOrder))
	for i, a := range answers {
		if a < 0 || a >= len(questions[i].Options) {
			return Result{}, ErrInvalidAnswers
		}
		for area, w := range questions[i].Options[a].Scores {
			totals[area] += w
		}
	}
	best := areaOrder[0]
	for _, area := range areaOrder[1:] {
		if totals[area] > totals[best] {
			best = area
		}
	}
	return Result{Scores: totals, RecommendedArea: best, AreaLabel: AreaLabel(best)}, nil
}
