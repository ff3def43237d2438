package models

import "time"

const (
	InitialArticleID = "7f4c1a52-0b1e-4c8e-9a51-3d2f6e1b0a01"
	InitialVideoID   = "7f4c1a52-0b1e-4c8e-9a51-3d2f6e1b0a02"
	InitialToolID    = "7f4c1a52-0b1e-4c8e-9a51-3d2f6e1b0a03"
)

// InitialContents is the catalogue a fresh installation starts with.
func InitialContents() []Content {
	now := time.Now().UTC()
	return []Content{
		{
			ID:           InitialToolID,
			Type:         "ferramenta",
			Title:        "Planilha de Análise de Fornecedores",
			Description:  "Template completo para avaliar e comparar fornecedores com critérios ponderados. Pronto para uso.",
			Content:      toolBody,
			Image:        "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800",
			DownloadURL:  "/downloads/analise-fornecedores.xlsx",
			DownloadName: "Planilha_Analise_Fornecedores_Veltta.xlsx",
			FileSize:     "245 KB",
			FileType:     "xlsx",
			Date:         "2024-11-22",
			Category:     "gestao",
			Tags:         []string{"planilha", "fornecedores", "avaliação"},
			Featured:     true,
			Author:       "Equipe Veltta",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:          InitialArticleID,
			Type:        "artigo",
			Title:       "5 métricas de Compras que todo C-Level deveria acompanhar",
			Description: "Descubra quais indicadores são essenciais para demonstrar o valor estratégico da área de compras para a alta gestão.",
			Content:     articleBody,
			Image:       "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800",
			Date:        "2024-11-20",
			ReadTime:    "8 min de leitura",
			Category:    "analytics",
			Tags:        []string{"métricas", "KPIs", "gestão"},
			Featured:    true,
			Author:      "Equipe Veltta",
			CreatedAt:   now.Add(-time.Second),
			UpdatedAt:   now.Add(-time.Second),
		},
		{
			ID:          InitialVideoID,
			Type:        "video",
			Title:       "O Futuro do Procurement: Tendências para 2025",
			Description: "Conversamos sobre as principais tendências que vão transformar a área de compras nos próximos anos.",
			Image:       "https://images.unsplash.com/photo-1590602847861-f357a9332bbc?w=800",
			VideoURL:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			Date:        "2024-11-18",
			ReadTime:    "45 min",
			Category:    "tecnologia",
			Tags:        []string{"tendências", "futuro", "tecnologia"},
			Featured:    true,
			Author:      "Equipe Veltta",
			CreatedAt:   now.Add(-2 * time.Second),
			UpdatedAt:   now.Add(-2 * time.Second),
		},
	}
}

const articleBody = `<h2>Introdução</h2>
<p>A área de compras evoluiu de uma função operacional para um pilar estratégico das organizações. Para demonstrar esse valor, é fundamental acompanhar as métricas certas.</p>

<h2>1. Savings (Economia Gerada)</h2>
<p>O indicador mais tradicional, mas ainda relevante. Mede a diferença entre o preço de referência e o preço negociado.</p>
<blockquote>Dica: Vá além do saving nominal e calcule o saving realizado vs. orçamento.</blockquote>

<h2>2. Cost Avoidance</h2>
<p>Muitas vezes esquecido, o cost avoidance captura economias que não aparecem diretamente como redução de preço.</p>

<h2>3. Spend Under Management</h2>
<p>Percentual do gasto total que passa pela área de compras. Quanto maior, mais controle e oportunidade de negociação.</p>

<h2>4. Supplier Performance Score</h2>
<p>Avaliação consolidada dos fornecedores em critérios como qualidade, prazo e serviço.</p>

<h2>5. Time-to-Contract</h2>
<p>Tempo médio desde a requisição até a assinatura do contrato. Impacta diretamente a agilidade do negócio.</p>

<h2>Conclusão</h2>
<p>Essas métricas, quando bem comunicadas, transformam a percepção da área de compras perante a alta gestão.</p>`

const toolBody = `<h2>O que está incluso</h2>
<ul>
<li>Matriz de avaliação com 15 critérios</li>
<li>Peso customizável por critério</li>
<li>Gráfico radar automático</li>
<li>Comparativo lado a lado</li>
<li>Histórico de avaliações</li>
</ul>

<h2>Como usar</h2>
<p>1. Baixe o arquivo e abra no Excel ou Google Sheets</p>
<p>2. Configure os pesos dos critérios na aba "Configuração"</p>
<p>3. Preencha as avaliações na aba "Avaliação"</p>
<p>4. Veja o resultado consolidado na aba "Dashboard"</p>`
