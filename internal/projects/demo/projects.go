package demo

import (
	"sort"
	"time"

	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

// AuthorID owns every demo project.
const AuthorID = "demo-user"

var projects = []domain.Project{
	{
		ID:            "mock-1",
		Name:          "Microfinance Rurale",
		Category:      "economie",
		AuthorID:      AuthorID,
		Description:   "Programme de microcrédits pour les agriculteurs ruraux en Afrique de l'Ouest",
		Location:      "Bamako, Mali",
		Latitude:      12.6392,
		Longitude:     -8.0029,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/microfinance",
		CreatedAt:     ts("2024-01-15T10:00:00Z"),
		UpdatedAt:     ts("2024-01-15T10:00:00Z"),
	},
	{
		ID:            "mock-2",
		Name:          "Coopérative Agricole",
		Category:      "economie",
		AuthorID:      AuthorID,
		Description:   "Réseau de coopératives pour la commercialisation des produits agricoles",
		Location:      "Lomé, Togo",
		Latitude:      6.1256,
		Longitude:     1.2221,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/cooperative",
		CreatedAt:     ts("2024-02-10T14:30:00Z"),
		UpdatedAt:     ts("2024-02-10T14:30:00Z"),
	},
	{
		ID:            "mock-3",
		Name:          "Clinique Mobile",
		Category:      "sante",
		AuthorID:      AuthorID,
		Description:   "Service de santé mobile pour les zones rurales isolées",
		Location:      "Tambacounda, Sénégal",
		Latitude:      14.4974,
		Longitude:     -14.4524,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/mobile-clinic",
		CreatedAt:     ts("2024-01-20T09:15:00Z"),
		UpdatedAt:     ts("2024-01-20T09:15:00Z"),
	},
	{
		ID:            "mock-4",
		Name:          "Télémédecine",
		Category:      "sante",
		AuthorID:      AuthorID,
		Description:   "Plateforme de consultation médicale à distance",
		Location:      "Abidjan, Côte d'Ivoire",
		Latitude:      5.36,
		Longitude:     -4.0083,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/telemedicine",
		CreatedAt:     ts("2024-02-05T11:45:00Z"),
		UpdatedAt:     ts("2024-02-05T11:45:00Z"),
	},
	{
		ID:            "mock-5",
		Name:          "Reforestation",
		Category:      "environnement",
		AuthorID:      AuthorID,
		Description:   "Programme de plantation d'arbres et restauration des forêts",
		Location:      "Rwanda",
		Latitude:      -1.9403,
		Longitude:     29.8739,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/reforestation",
		CreatedAt:     ts("2024-01-25T08:00:00Z"),
		UpdatedAt:     ts("2024-01-25T08:00:00Z"),
	},
	{
		ID:            "mock-6",
		Name:          "Énergie Solaire",
		Category:      "environnement",
		AuthorID:      AuthorID,
		Description:   "Installation de panneaux solaires dans les villages",
		Location:      "Nigeria",
		Latitude:      9.082,
		Longitude:     8.6753,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/solar-energy",
		CreatedAt:     ts("2024-02-15T13:20:00Z"),
		UpdatedAt:     ts("2024-02-15T13:20:00Z"),
	},
	{
		ID:            "mock-7",
		Name:          "École Numérique",
		Category:      "education",
		AuthorID:      AuthorID,
		Description:   "Programme d'équipement informatique pour les écoles rurales",
		Location:      "Khartoum, Soudan",
		Latitude:      15.5007,
		Longitude:     32.5599,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/digital-school",
		CreatedAt:     ts("2024-01-30T10:30:00Z"),
		UpdatedAt:     ts("2024-01-30T10:30:00Z"),
	},
	{
		ID:            "mock-8",
		Name:          "Bibliothèque Mobile",
		Category:      "education",
		AuthorID:      AuthorID,
		Description:   "Service de bibliothèque itinérante pour promouvoir la lecture",
		Location:      "Tunisie",
		Latitude:      33.8869,
		Longitude:     9.5375,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/mobile-library",
		CreatedAt:     ts("2024-02-20T15:00:00Z"),
		UpdatedAt:     ts("2024-02-20T15:00:00Z"),
	},
	{
		ID:            "mock-9",
		Name:          "Surveillance Épidémiologique",
		Category:      "epidemie",
		AuthorID:      AuthorID,
		Description:   "Système de surveillance et d'alerte précoce des maladies",
		Location:      "Douala, Cameroun",
		Latitude:      4.0511,
		Longitude:     9.7679,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/epidemic-surveillance",
		CreatedAt:     ts("2024-01-18T12:00:00Z"),
		UpdatedAt:     ts("2024-01-18T12:00:00Z"),
	},
	{
		ID:            "mock-10",
		Name:          "Vaccination Mobile",
		Category:      "epidemie",
		AuthorID:      AuthorID,
		Description:   "Campagne de vaccination dans les zones reculées",
		Location:      "Kampala, Ouganda",
		Latitude:      0.3476,
		Longitude:     32.5825,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/mobile-vaccination",
		CreatedAt:     ts("2024-02-12T09:30:00Z"),
		UpdatedAt:     ts("2024-02-12T09:30:00Z"),
	},
	{
		ID:            "mock-11",
		Name:          "Agriculture Urbaine",
		Category:      "environnement",
		AuthorID:      AuthorID,
		Description:   "Jardins communautaires en milieu urbain",
		Location:      "Lagos, Nigeria",
		Latitude:      6.5244,
		Longitude:     3.3792,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/urban-farming",
		CreatedAt:     ts("2024-03-01T10:00:00Z"),
		UpdatedAt:     ts("2024-03-01T10:00:00Z"),
	},
	{
		ID:            "mock-12",
		Name:          "Formation Professionnelle",
		Category:      "education",
		AuthorID:      AuthorID,
		Description:   "Centre de formation aux métiers du numérique",
		Location:      "Tunis, Tunisie",
		Latitude:      36.8065,
		Longitude:     10.1815,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/vocational-training",
		CreatedAt:     ts("2024-03-05T14:00:00Z"),
		UpdatedAt:     ts("2024-03-05T14:00:00Z"),
	},
	{
		ID:            "mock-13",
		Name:          "Eau Potable",
		Category:      "sante",
		AuthorID:      AuthorID,
		Description:   "Installation de puits et systèmes de filtration d'eau",
		Location:      "Ouagadougou, Burkina Faso",
		Latitude:      12.3714,
		Longitude:     -1.5197,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/clean-water",
		CreatedAt:     ts("2024-03-10T11:00:00Z"),
		UpdatedAt:     ts("2024-03-10T11:00:00Z"),
	},
	{
		ID:            "mock-14",
		Name:          "Artisanat Local",
		Category:      "economie",
		AuthorID:      AuthorID,
		Description:   "Plateforme e-commerce pour artisans locaux",
		Location:      "Nouakchott, Mauritanie",
		Latitude:      18.0735,
		Longitude:     -15.9582,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/local-crafts",
		CreatedAt:     ts("2024-03-15T16:00:00Z"),
		UpdatedAt:     ts("2024-03-15T16:00:00Z"),
	},
	{
		ID:            "mock-15",
		Name:          "Gestion des Déchets",
		Category:      "environnement",
		AuthorID:      AuthorID,
		Description:   "Programme de recyclage et compostage communautaire",
		Location:      "Mombasa, Kenya",
		Latitude:      -4.0435,
		Longitude:     39.6682,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/waste-management",
		CreatedAt:     ts("2024-03-20T13:30:00Z"),
		UpdatedAt:     ts("2024-03-20T13:30:00Z"),
	},
	{
		ID:            "mock-16",
		Name:          "Alphabétisation Adultes",
		Category:      "education",
		AuthorID:      AuthorID,
		Description:   "Programme d'alphabétisation pour adultes",
		Location:      "Niamey, Niger",
		Latitude:      13.4432,
		Longitude:     2.1098,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/adult-literacy",
		CreatedAt:     ts("2024-03-25T09:00:00Z"),
		UpdatedAt:     ts("2024-03-25T09:00:00Z"),
	},
	{
		ID:            "mock-17",
		Name:          "Nutrition Infantile",
		Category:      "sante",
		AuthorID:      AuthorID,
		Description:   "Programme de lutte contre la malnutrition infantile",
		Location:      "Côte d'Ivoire",
		Latitude:      7.54,
		Longitude:     -5.5471,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/child-nutrition",
		CreatedAt:     ts("2024-04-01T10:30:00Z"),
		UpdatedAt:     ts("2024-04-01T10:30:00Z"),
	},
	{
		ID:            "mock-18",
		Name:          "Tourisme Durable",
		Category:      "economie",
		AuthorID:      AuthorID,
		Description:   "Développement de l'écotourisme communautaire",
		Location:      "Pretoria, Afrique du Sud",
		Latitude:      -25.7479,
		Longitude:     28.2293,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/sustainable-tourism",
		CreatedAt:     ts("2024-04-05T15:00:00Z"),
		UpdatedAt:     ts("2024-04-05T15:00:00Z"),
	},
	{
		ID:            "mock-19",
		Name:          "Prévention Paludisme",
		Category:      "epidemie",
		AuthorID:      AuthorID,
		Description:   "Distribution de moustiquaires et sensibilisation",
		Location:      "Yaoundé, Cameroun",
		Latitude:      3.848,
		Longitude:     11.5021,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/malaria-prevention",
		CreatedAt:     ts("2024-04-10T12:00:00Z"),
		UpdatedAt:     ts("2024-04-10T12:00:00Z"),
	},
	{
		ID:            "mock-20",
		Name:          "Conservation Biodiversité",
		Category:      "environnement",
		AuthorID:      AuthorID,
		Description:   "Protection des espèces menacées et de leurs habitats",
		Location:      "Madagascar",
		Latitude:      -18.7669,
		Longitude:     46.8691,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/biodiversity",
		CreatedAt:     ts("2024-04-15T14:30:00Z"),
		UpdatedAt:     ts("2024-04-15T14:30:00Z"),
	},
	{
		ID:            "mock-21",
		Name:          "STEM pour Filles",
		Category:      "education",
		AuthorID:      AuthorID,
		Description:   "Programme d'encouragement des filles dans les sciences",
		Location:      "Ouganda",
		Latitude:      1.3733,
		Longitude:     32.2903,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/stem-girls",
		CreatedAt:     ts("2024-04-20T11:00:00Z"),
		UpdatedAt:     ts("2024-04-20T11:00:00Z"),
	},
	{
		ID:            "mock-22",
		Name:          "Banque Céréalière",
		Category:      "economie",
		AuthorID:      AuthorID,
		Description:   "Stockage et gestion des récoltes céréalières",
		Location:      "Tchad",
		Latitude:      11.8657,
		Longitude:     15.0444,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/grain-bank",
		CreatedAt:     ts("2024-04-25T16:00:00Z"),
		UpdatedAt:     ts("2024-04-25T16:00:00Z"),
	},
	{
		ID:            "mock-23",
		Name:          "Santé Maternelle",
		Category:      "sante",
		AuthorID:      AuthorID,
		Description:   "Amélioration des soins prénataux et postnataux",
		Location:      "Addis-Abeba, Éthiopie",
		Latitude:      8.9806,
		Longitude:     38.7578,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/maternal-health",
		CreatedAt:     ts("2024-05-01T09:30:00Z"),
		UpdatedAt:     ts("2024-05-01T09:30:00Z"),
	},
	{
		ID:            "mock-24",
		Name:          "Lutte Anti-Vectorielle",
		Category:      "epidemie",
		AuthorID:      AuthorID,
		Description:   "Contrôle des vecteurs de maladies tropicales",
		Location:      "Lusaka, Zambie",
		Latitude:      -15.4167,
		Longitude:     28.2833,
		Status:        domain.StatusApproved,
		RepositoryURL: "https://github.com/example/vector-control",
		CreatedAt:     ts("2024-05-05T13:00:00Z"),
		UpdatedAt:     ts("2024-05-05T13:00:00Z"),
	},
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Projects returns a copy of the demo dataset, newest first.
func Projects() []domain.Project {
	out := make([]domain.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Filtered applies f to the demo dataset.
func Filtered(f domain.Filter) []domain.Project {
	return f.Apply(Projects())
}

// Get returns the demo project with the given id.
func Get(id string) (domain.Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// Stats summarizes the demo dataset the same way the repository does.
func Stats() domain.Stats {
	st := domain.Stats{Categories: map[string]int{}}
	for _, p := range projects {
		st.TotalProjects++
		switch p.Status {
		case domain.StatusApproved:
			st.ApprovedProjects++
		case domain.StatusPending:
			st.PendingProjects++
		case domain.StatusRejected:
			st.RejectedProjects++
		}
		st.Categories[p.Category]++
	}
	return st
}
