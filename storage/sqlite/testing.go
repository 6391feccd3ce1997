package sqlite

import (
	"context"
	"strings"

	"github.com/poiesic/scout/storage"
)

// SampleProfilesCSV is a small dataset used by tests across packages.
const SampleProfilesCSV = `id,full_name,headline,title,company,company_type,location,seniority_level,seniority_rank,years_experience,skills,education,profile_url
p1,Ana Souza,Backend Developer | Go,Backend Developer,Nubank,fintech,"São Paulo, SP",junior,2,2.5,"go,postgres",USP,https://example.com/in/ana
p2,Bruno Lima,Senior Backend Engineer,Senior Backend Engineer,iFood,startup,SAO PAULO,senior,4,9,"java,kafka",Unicamp,https://example.com/in/bruno
p3,Carla Dias,Frontend Developer,Frontend Developer,Globo,media,Rio de Janeiro,mid,3,5,"react,typescript",UFRJ,https://example.com/in/carla
p4,Diego Alves,Backend Intern,Intern,Stone,fintech,São Paulo,intern,1,0.5,python,FIAP,https://example.com/in/diego
p5,Eva Rocha,Staff Engineer,Staff Backend Engineer,Mercado Livre,marketplace,Campinas,staff,5,14,"go,aws",ITA,https://example.com/in/eva
`

// NewMemoryDataset opens an in-memory dataset preloaded with csvData.
// Caller must close the dataset when done.
func NewMemoryDataset(csvData string, opts ...Option) (storage.Dataset, error) {
	dataset, err := OpenMemory(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := dataset.ImportCSV(context.Background(), strings.NewReader(csvData)); err != nil {
		dataset.Close()
		return nil, err
	}
	return dataset, nil
}
