package analysis

import "github.com/NancyCima/Azure-Dashboard/internal/llm"

// SystemPrompt frames every analysis request.
const SystemPrompt = `You are an expert in user story analysis and software requirements.
Focus on providing actionable, specific feedback and ensure all field validations
and usability standards are met. Structure your response in two clear sections:
1. Suggested Acceptance Criteria
2. General Suggestions
Respond in the same language as the user story.`

type messages struct {
	header          string
	imageOnlyHeader string
	titleLabel      string
	descLabel       string
	criteriaLabel   string
	criteriaContext string
	fieldTypes      string
	imagesAttached  string
	figmaLink       string
	structure       string
	criteriaSection string
	criteriaHints   []string
	suggestSection  string
	suggestHints    []string
	replyLanguage   string

	criteriaHeaders   []string
	suggestionHeaders []string

	errNoContent  string
	errConnection string
	errAuth       string
	errRateLimit  string
	errBadRequest string
	errAnalysis   string
}

var catalog = map[Language]messages{
	Spanish: {
		header:          "Analiza esta historia de usuario para verificar su completitud y coherencia",
		imageOnlyHeader: "Analiza las imágenes adjuntas de esta historia de usuario y propone criterios de aceptación basados en lo que muestran",
		titleLabel:      "Título",
		descLabel:       "Descripción",
		criteriaLabel:   "Criterios de Aceptación Actuales",
		criteriaContext: "Criterios generales a considerar:",
		fieldTypes:      "Tipos de campos:",
		imagesAttached:  "Se adjuntan %d imagen(es) de referencia (diseños o capturas de pantalla).",
		figmaLink:       "Diseño en Figma: %s",
		structure:       "IMPORTANTE: Estructura tu respuesta en dos secciones principales:",
		criteriaSection: "Criterios de Aceptación Sugeridos:",
		criteriaHints: []string{
			"Lista de criterios de aceptación específicos y medibles",
			"Cada criterio debe comenzar con un guión (-)",
		},
		suggestSection: "Sugerencias Generales:",
		suggestHints: []string{
			"Mejoras de claridad",
			"Consideraciones de usabilidad",
			"Validaciones de campos",
			"Componentes reutilizables",
			"Otras recomendaciones",
		},
		replyLanguage: "IMPORTANTE: Proporciona tu análisis y recomendaciones en español.",

		criteriaHeaders:   []string{"Criterios de Aceptación Sugeridos:", "Criterios de Aceptación Faltantes:"},
		suggestionHeaders: []string{"Sugerencias Generales:"},

		errNoContent:  "El ticket no tiene descripción, criterios de aceptación ni imágenes para analizar",
		errConnection: "Error de conexión con la API de %s",
		errAuth:       "Error de autenticación de API de %s",
		errRateLimit:  "Límite de API de %s excedido",
		errBadRequest: "Solicitud incorrecta a la API de %s",
		errAnalysis:   "Error en el análisis",
	},
	English: {
		header:          "Analyze this user story for completeness and coherence",
		imageOnlyHeader: "Analyze the attached images of this user story and propose acceptance criteria based on what they show",
		titleLabel:      "Title",
		descLabel:       "Description",
		criteriaLabel:   "Current Acceptance Criteria",
		criteriaContext: "General criteria to consider:",
		fieldTypes:      "Field Types:",
		imagesAttached:  "%d reference image(s) are attached (designs or screenshots).",
		figmaLink:       "Figma design: %s",
		structure:       "IMPORTANT: Structure your response in two main sections:",
		criteriaSection: "Suggested Acceptance Criteria:",
		criteriaHints: []string{
			"List of specific and measurable acceptance criteria",
			"Each criterion should start with a dash (-)",
		},
		suggestSection: "General Suggestions:",
		suggestHints: []string{
			"Clarity improvements",
			"Usability considerations",
			"Field validations",
			"Reusable components",
			"Other recommendations",
		},
		replyLanguage: "IMPORTANT: Provide your analysis and recommendations in English.",

		criteriaHeaders:   []string{"Suggested Acceptance Criteria:", "Missing Acceptance Criteria:"},
		suggestionHeaders: []string{"General Suggestions:"},

		errNoContent:  "The ticket has no description, acceptance criteria or images to analyze",
		errConnection: "Failed to connect to %s API",
		errAuth:       "%s API authentication error",
		errRateLimit:  "%s API rate limit exceeded",
		errBadRequest: "Bad request to %s API",
		errAnalysis:   "Analysis failed",
	},
}

func messagesFor(lang Language) messages {
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[Spanish]
}

// llmErrorMessage returns the format string for a provider failure.
func (m messages) llmErrorMessage(kind llm.ErrorKind) string {
	switch kind {
	case llm.ErrorConnection:
		return m.errConnection
	case llm.ErrorAuth:
		return m.errAuth
	case llm.ErrorRateLimit:
		return m.errRateLimit
	case llm.ErrorBadRequest:
		return m.errBadRequest
	default:
		return m.errAnalysis
	}
}
