package conceptmap

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/docvis/pkg/ai"

	"github.com/invopop/jsonschema"
)

// modelNode and modelResponse describe what the model is asked to return.
type modelNode struct {
	ID    string `json:"id" jsonschema:"description=Identificador único del concepto"`
	Label string `json:"label" jsonschema:"maxLength=25"`
	Level Level  `json:"level" jsonschema:"enum=central,enum=primary,enum=secondary,enum=detail"`
}

type modelEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

type modelResponse struct {
	Nodes *[]modelNode `json:"nodes"`
	Edges *[]modelEdge `json:"edges"`
}

const conceptMapPrompt = `Analiza el siguiente texto y genera un mapa conceptual jerárquico SIMPLIFICADO en formato JSON.

REGLAS IMPORTANTES:
1. MÁXIMO 1 concepto central
2. MÁXIMO 3-4 conceptos primarios
3. MÁXIMO 2-3 conceptos secundarios por cada primario
4. MÁXIMO 1-2 conceptos de detalle por cada secundario
5. TOTAL: No más de 12 conceptos
6. CONEXIONES: Solo las esenciales, máximo 10-15 conexiones

JERARQUÍA ESTRICTA:
- Central: El tema/concepto PRINCIPAL del texto (solo 1)
- Primary: Conceptos DIRECTAMENTE relacionados con el central (3-4 máximo)
- Secondary: Subconceptos que amplían los primarios (2-3 por primario)
- Detail: Ejemplos o aplicaciones específicas (1-2 por secundario)

FORMATO JSON OBLIGATORIO:
{
  "nodes": [
    {"id": "central-1", "label": "Concepto Principal", "level": "central"},
    {"id": "primary-1", "label": "Concepto Primario 1", "level": "primary"},
    {"id": "secondary-1", "label": "Subconcepto 1", "level": "secondary"},
    {"id": "detail-1", "label": "Detalle específico", "level": "detail"}
  ],
  "edges": [
    {"id": "e1", "source": "central-1", "target": "primary-1", "label": "incluye"},
    {"id": "e2", "source": "primary-1", "target": "secondary-1", "label": "comprende"}
  ]
}

IMPORTANTE:
- Los labels deben ser CONCISOS (máximo 25 caracteres)
- Solo conexiones lógicas y esenciales
- Mantener estructura jerárquica clara
- Evitar conceptos redundantes
`

var modelSchema = sync.OnceValue(func() *jsonschema.Schema {
	return ai.GenerateSchema(&modelResponse{})
})

var responseSchema = sync.OnceValue(func() string {
	b, err := json.MarshalIndent(modelSchema(), "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
})

func buildPrompt(content string) string {
	var b strings.Builder
	b.WriteString(conceptMapPrompt)
	if schema := responseSchema(); schema != "" {
		b.WriteString("\nESQUEMA JSON:\n")
		b.WriteString(schema)
		b.WriteString("\n")
	}
	b.WriteString("\nTEXTO A ANALIZAR:\n")
	b.WriteString(content)
	return b.String()
}
