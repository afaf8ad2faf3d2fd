package i18n

var catalog = map[string]map[string]string{
	"pt": {
		"dashboard":         "Dashboard",
		"projects":          "Projetos",
		"map":               "Mapa",
		"feedback":          "Feedback",
		"reports":           "Relatórios",
		"profile":           "Perfil",
		"totalProjects":     "Total de Projetos",
		"revenue":           "Receita",
		"growth":            "Crescimento",
		"activeClients":     "Clientes Ativos",
		"projectsByStatus":  "Projetos por Status",
		"projectsByCountry": "Projetos por País",
		"recentActivity":    "Atividade Recente",
		"monthlyRevenue":    "Receita Mensal",
		"costs":             "Custos",
		"allProjects":       "Todos os Projetos",
		"all":               "Todos",
		"venda":             "Venda",
		"fabricacao":        "Fabricação",
		"instalacao":        "Instalação",
		"pos-venda":         "Pós-venda",
		"averageRating":     "Avaliação Média",
		"reviews":           "avaliações",
		"analytics":         "Análise",
		"kpiBreakdown":      "Detalhamento de KPIs por País",
		"country":           "País",
		"satisfaction":      "Satisfação",
		"theme":             "Tema",
		"language":          "Idioma",
	},
	"en": {
		"dashboard":         "Dashboard",
		"projects":          "Projects",
		"map":               "Map",
		"feedback":          "Feedback",
		"reports":           "Reports",
		"profile":           "Profile",
		"totalProjects":     "Total Projects",
		"revenue":           "Revenue",
		"growth":            "Growth",
		"activeClients":     "Active Clients",
		"projectsByStatus":  "Projects by Status",
		"projectsByCountry": "Projects by Country",
		"recentActivity":    "Recent Activity",
		"monthlyRevenue":    "Monthly Revenue",
		"costs":             "Costs",
		"allProjects":       "All Projects",
		"all":               "All",
		"venda":             "Sales",
		"fabricacao":        "Manufacturing",
		"instalacao":        "Installation",
		"pos-venda":         "After-sales",
		"averageRating":     "Average Rating",
		"reviews":           "reviews",
		"analytics":         "Analytics",
		"kpiBreakdown":      "KPI Breakdown by Country",
		"country":           "Country",
		"satisfaction":      "Satisfaction",
		"theme":             "Theme",
		"language":          "Language",
	},
	"es": {
		"dashboard":         "Panel",
		"projects":          "Proyectos",
		"map":               "Mapa",
		"feedback":          "Comentarios",
		"reports":           "Informes",
		"profile":           "Perfil",
		"totalProjects":     "Total de Proyectos",
		"revenue":           "Ingresos",
		"growth":            "Crecimiento",
		"activeClients":     "Clientes Activos",
		"projectsByStatus":  "Proyectos por Estado",
		"projectsByCountry": "Proyectos por País",
		"recentActivity":    "Actividad Reciente",
		"monthlyRevenue":    "Ingresos Mensuales",
		"costs":             "Costos",
		"allProjects":       "Todos los Proyectos",
		"all":               "Todos",
		"venda":             "Ventas",
		"fabricacao":        "Fabricación",
		"instalacao":        "Instalación",
		"pos-venda":         "Posventa",
		"averageRating":     "Calificación Promedio",
		"reviews":           "reseñas",
		"analytics":         "Análisis",
		"kpiBreakdown":      "Desglose de KPI por País",
		"country":           "País",
		"satisfaction":      "Satisfacción",
		"theme":             "Tema",
		"language":          "Idioma",
	},
}
