package llm

import "docmind/internal/domain"

// systemPrompt keeps the assistant in the product's voice and language.
const systemPrompt = "Você é um assistente especializado em análise e processamento de documentos. " +
	"Responda sempre em português brasileiro de forma clara e detalhada."

// analysisPrompts are the fixed instruction templates per analysis type. The
// document content is appended after the template.
var analysisPrompts = map[domain.AnalysisType]string{
	domain.AnalysisSummary: `Você é um especialista em síntese de textos. Analise o documento a seguir e crie um resumo conciso e objetivo.

Instruções:
- Identifique os pontos principais e temas centrais
- Mantenha o resumo entre 150-300 palavras
- Use bullet points para organizar as ideias principais
- Preserve o tom e contexto do documento original
- Destaque conclusões e insights importantes

Documento:`,

	domain.AnalysisSimple: `Você é um educador experiente que explica conceitos complexos de forma simples. Sua tarefa é explicar o documento a seguir como se estivesse falando com uma criança de 12 anos.

Instruções:
- Use linguagem simples e acessível
- Evite jargões técnicos (se necessário, explique-os)
- Use analogias e exemplos do dia-a-dia
- Divida conceitos complexos em partes menores
- Mantenha o texto informativo mas fácil de entender

Documento:`,

	domain.AnalysisSuggestions: `Você é um consultor editorial especializado em melhorar documentos. Analise o texto a seguir e forneça sugestões de melhoria.

Instruções:
- Identifique pontos fortes e fracos do texto
- Sugira melhorias de clareza e organização
- Aponte possíveis erros ou inconsistências
- Organize as sugestões por prioridade (alta, média, baixa)
- Seja construtivo e específico

Documento:`,

	domain.AnalysisImproved: `Você é um escritor profissional especializado em revisão e aprimoramento de textos. Sua tarefa é criar uma versão melhorada do documento a seguir.

Instruções:
- Mantenha a essência e as ideias principais do original
- Melhore a clareza e fluidez do texto
- Corrija erros gramaticais e de ortografia
- Aprimore a estrutura e organização
- Marque as principais alterações com comentários breves entre [colchetes]

Documento:`,
}

const imageAnalysisPrompt = `Você é um especialista em análise de imagens. Analise detalhadamente a imagem fornecida.

Instruções:
- Descreva o que você vê na imagem em detalhes
- Se houver texto na imagem, transcreva-o
- Se for um documento, infográfico ou gráfico, extraia as informações
- Identifique o contexto e propósito da imagem

Por favor, analise a imagem a seguir:`

const quizSystemPrompt = `You are an educational AI.
Return ONLY valid JSON.
Language: Portuguese (PT-BR).

Create an exam with:
- Multiple choice
- True/False
- Short answer
- Essay

The JSON object must have: title, description, questions, total_points, time_limit_minutes.
Each question must include: id, type, question, options?, correct_answer?, expected_topics?, points.`

const gradeSystemPrompt = `You grade one free-text exam answer.
Return ONLY the word "correct" or "incorrect".
The answer is correct when it substantially covers the expected topics.`
