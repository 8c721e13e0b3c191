package dto

import "github.com/yukikurage/devtrack/internal/models"

// OrganisationDTO represents an organisation in API responses
type OrganisationDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID             uint64 `json:"id"`
	OrganisationID uint64 `json:"organisation_id"`
	Name           string `json:"name"`
}

func ToOrganisationDTO(org models.Organisation) OrganisationDTO {
	return OrganisationDTO{ID: org.ID, Name: org.Name}
}

func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{ID: dept.ID, OrganisationID: dept.OrganisationID, Name: dept.Name}
}

func ToDepartmentDTOs(departments []models.Department) []DepartmentDTO {
	items := make([]DepartmentDTO, len(departments))
	for i, dept := range departments {
		items[i] = ToDepartmentDTO(dept)
	}
	return items
}
