package memory

import (
	"time"

	"spacetraveling/internal/post"
	"spacetraveling/internal/richtext"
)

// Sample returns a handful of posts for running the site without an API.
func Sample() []post.Detail {
	day := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
		return &t
	}
	para := func(text string) richtext.Fragment {
		return richtext.Fragment{Type: richtext.TypeParagraph, Text: text}
	}

	return []post.Detail{
		{
			UID:         "como-utilizar-hooks",
			Title:       "Como utilizar Hooks",
			Subtitle:    "Pensando em sincronização em vez de ciclos de vida.",
			Author:      "Joseph Oliveira",
			PublishedAt: day(2021, time.March, 15),
			BannerURL:   "/static/banner.svg",
			Content: []post.ContentBlock{
				{Heading: "Proin et varius", Body: []richtext.Fragment{
					para("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Nullam dolor sapien, vulputate eu diam at, condimentum hendrerit tellus."),
					para("Nam facilisis sodales felis, pharetra pharetra lectus auctor sed."),
				}},
				{Heading: "Cras laoreet mi", Body: []richtext.Fragment{
					para("Nulla auctor sit amet quam vitae commodo. Sed risus justo, vulputate quis neque eget, dictum sodales sem."),
				}},
			},
		},
		{
			UID:         "criando-um-app-cra-do-zero",
			Title:       "Criando um app CRA do zero",
			Subtitle:    "Tudo sobre como criar a sua primeira aplicação utilizando Create React App",
			Author:      "Danilo Vieira",
			PublishedAt: day(2021, time.March, 19),
			Content: []post.ContentBlock{
				{Heading: "Introdução", Body: []richtext.Fragment{
					para("Aenean ut nibh in sem facilisis sollicitudin. Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia curae."),
				}},
			},
		},
		{
			UID:         "mapas-com-react-usando-leaflet",
			Title:       "Mapas com React usando Leaflet",
			Subtitle:    "Aprenda a integrar mapas em aplicações React",
			Author:      "Diego Fernandes",
			PublishedAt: day(2021, time.April, 2),
			Content: []post.ContentBlock{
				{Heading: "Por que Leaflet", Body: []richtext.Fragment{
					para("Integer eget ligula et mauris facilisis tincidunt. Morbi eget urna vitae metus lacinia dictum."),
				}},
			},
		},
	}
}
