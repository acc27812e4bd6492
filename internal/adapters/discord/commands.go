package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "interview",
		Description: "Entrevista simulada con feedback del coach",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "start", Description: "Arrancar una entrevista por DM"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "stop", Description: "Terminar tu entrevista en curso"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "active", Description: "Ver sesiones activas (admins)"},
		},
	},
	{
		Name:        "pregunta",
		Description: "Una pregunta suelta del banco, sin sesión",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tipo",
				Description: "Tipo de entrevista",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Técnica", Value: "technical"},
					{Name: "Behavioral", Value: "behavioral"},
					{Name: "System design", Value: "system_design"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "dificultad",
				Description: "Nivel de dificultad",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Easy", Value: "easy"},
					{Name: "Medium", Value: "medium"},
					{Name: "Hard", Value: "hard"},
				},
			},
		},
	},
	{
		Name:        "addpregunta",
		Description: "Agregar una pregunta al banco (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tipo",
				Description: "Tipo de entrevista",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Técnica", Value: "technical"},
					{Name: "Behavioral", Value: "behavioral"},
					{Name: "System design", Value: "system_design"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "dificultad",
				Description: "Nivel de dificultad",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Easy", Value: "easy"},
					{Name: "Medium", Value: "medium"},
					{Name: "Hard", Value: "hard"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "texto",
				Description: "El enunciado de la pregunta",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "temas",
				Description: "Temas separados por coma (opcional)",
			},
		},
	},
	{
		Name:        "resume",
		Description: "Review de tu CV por DM",
	},
	{
		Name:        "perfil",
		Description: "Tus puntos, racha y últimas entrevistas",
	},
	{
		Name:        "coach",
		Description: "Consulta rápida de carrera o entrevistas",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "consulta",
			Description: "Qué querés preguntar",
			Required:    true,
		}},
	},
	{
		Name:        "games",
		Description: "Juegos de la comunidad",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Ver los juegos disponibles"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "invite",
				Description: "Publicar una convocatoria en este canal",
				Options: []*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "juego",
					Description: "Qué juego convocar",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Verdad o Reto", Value: "truth_dare"},
						{Name: "Adivina la Palabra", Value: "word_guess"},
						{Name: "Mirror Match", Value: "mirror_match"},
					},
				}},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "stop", Description: "Terminar el juego de este canal"},
		},
	},
	{
		Name:        "tasks",
		Description: "Estado de las tareas programadas (admins)",
	},
}
