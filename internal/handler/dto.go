package handler

import "github.com/msomdec/recipe-api/internal/domain"

type userDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

type tagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toTagDTO(t *domain.Tag) tagDTO {
	return tagDTO{ID: t.ID, Name: t.Name}
}

func toTagDTOs(tags []domain.Tag) []tagDTO {
	out := make([]tagDTO, len(tags))
	for i := range tags {
		out[i] = toTagDTO(&tags[i])
	}
	return out
}

// recipeDTO is the list representation of a recipe.
type recipeDTO struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	TimeMinutes int      `json:"time_minutes"`
	Price       string   `json:"price"`
	Link        string   `json:"link"`
	Tags        []tagDTO `json:"tags"`
}

// recipeDetailDTO adds the description to recipeDTO.
type recipeDetailDTO struct {
	recipeDTO
	Description string `json:"description"`
}

func toRecipeDTO(r *domain.Recipe) recipeDTO {
	return recipeDTO{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        toTagDTOs(r.Tags),
	}
}

func toRecipeDetailDTO(r *domain.Recipe) recipeDetailDTO {
	return recipeDetailDTO{recipeDTO: toRecipeDTO(r), Description: r.Description}
}
