package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	applog "larder/internal/log"
	"larder/internal/recipes"
	"larder/internal/shopping"
	"larder/models"
)

const maxRecipeUploadSize = 5 << 20

type recipeRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Servings    int                       `json:"servings"`
	MealType    string                    `json:"meal_type"`
	SourceURL   string                    `json:"source_url"`
	Ingredients []shopping.IngredientLine `json:"ingredients"`
	RawText     string                    `json:"raw_text"`
	UseAI       bool                      `json:"use_ai"`
}

// Recipes lists the signed-in user's recipes or creates a new one. Creation
// accepts structured ingredients, a pasted raw_text body parsed locally, or
// raw_text with use_ai for assistant-backed extraction.
func Recipes(w http.ResponseWriter, r *http.Request) {
	if recipeStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		list, err := recipeStore.List(ctx, userID)
		if err != nil {
			applog.Error(ctx, "failed to list recipes", "error", err)
			writeError(w, http.StatusInternalServerError, "unable to load recipes")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipes": list})
	case http.MethodPost:
		var req recipeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		recipe, err := buildRecipe(r, req, userID)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := recipeStore.Create(ctx, recipe); err != nil {
			applog.Error(ctx, "failed to create recipe", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Info(ctx, "recipe created", "name", recipe.Name, "ingredients", len(recipe.Ingredients))
		writeJSON(w, http.StatusCreated, recipe)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// RecipeByID fetches or deletes one recipe, addressed as /api/recipes/{id}.
func RecipeByID(w http.ResponseWriter, r *http.Request) {
	if recipeStore == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	idText := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/recipes/"), "/")
	id, err := strconv.ParseUint(idText, 10, 32)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}
	ctx := r.Context()

	recipe, err := recipeStore.Get(ctx, uint(id))
	if err != nil {
		applog.Error(ctx, "failed to load recipe", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}
	if recipe == nil || recipe.OwnerID != userID {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, recipe)
	case http.MethodDelete:
		if _, err := recipeStore.Delete(ctx, recipe.ID); err != nil {
			applog.Error(ctx, "failed to delete recipe", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "unable to delete recipe")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// RecipeImport accepts a PDF or plain-text upload and returns the parsed
// recipe without saving it, so the client can review before creating.
func RecipeImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := currentUserID(r); !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxRecipeUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "upload is too large or invalid")
		return
	}

	rawText := strings.TrimSpace(r.FormValue("recipe_text"))
	useAI := r.FormValue("use_ai") == "true"

	if file, header, err := r.FormFile("recipe_file"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxRecipeUploadSize+1))
		if readErr != nil || len(data) > maxRecipeUploadSize {
			writeError(w, http.StatusBadRequest, "unable to read the uploaded file")
			return
		}
		text := string(data)
		if strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			text, readErr = recipes.ExtractPDFText(data)
			if readErr != nil {
				applog.Error(r.Context(), "pdf extraction failed", "file", header.Filename, "error", readErr)
				writeError(w, http.StatusBadRequest, "unable to read the uploaded PDF")
				return
			}
		}
		if rawText != "" {
			rawText += "\n\n"
		}
		rawText += strings.TrimSpace(text)
	} else if !errors.Is(err, http.ErrMissingFile) && err != http.ErrNotMultipart {
		applog.Error(r.Context(), "recipe upload read failed", "error", err)
	}

	if rawText == "" {
		writeError(w, http.StatusBadRequest, "provide recipe text or upload a document")
		return
	}

	parsed, err := parseRecipeText(r, rawText, useAI)
	if err != nil {
		applog.Error(r.Context(), "recipe extraction failed", "error", err)
		writeError(w, http.StatusBadGateway, "unable to interpret the recipe")
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

func buildRecipe(r *http.Request, req recipeRequest, userID uint) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Servings:    req.Servings,
		MealType:    req.MealType,
		SourceURL:   req.SourceURL,
		SourceType:  "manual",
		OwnerID:     userID,
	}

	if len(req.Ingredients) == 0 && strings.TrimSpace(req.RawText) != "" {
		parsed, err := parseRecipeText(r, req.RawText, req.UseAI)
		if err != nil {
			return nil, err
		}
		if recipe.Name == "" {
			recipe.Name = parsed.Name
		}
		if recipe.Description == "" {
			recipe.Description = parsed.Description
		}
		if recipe.Servings == 0 {
			recipe.Servings = parsed.Servings
		}
		req.Ingredients = parsed.Ingredients
	}

	for _, line := range req.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientName: line.Name,
			Quantity:       line.Quantity,
			Unit:           line.Unit,
			IsOptional:     line.IsOptional,
		})
	}
	return recipe, nil
}

type parsedRecipe struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Servings    int                       `json:"servings"`
	MealType    string                    `json:"meal_type,omitempty"`
	Ingredients []shopping.IngredientLine `json:"ingredients"`
	Method      string                    `json:"method,omitempty"`
}

func parseRecipeText(r *http.Request, rawText string, useAI bool) (parsedRecipe, error) {
	if useAI && aiClient != nil {
		extracted, err := aiClient.ExtractRecipe(r.Context(), rawText)
		if err != nil {
			return parsedRecipe{}, err
		}
		parsed := parsedRecipe{
			Name:        extracted.Name,
			Description: extracted.Description,
			Servings:    extracted.Servings,
			MealType:    extracted.MealType,
			Method:      extracted.Method,
		}
		for _, ing := range extracted.Ingredients {
			parsed.Ingredients = append(parsed.Ingredients, shopping.IngredientLine{
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
				IsOptional: ing.IsOptional,
			})
		}
		return parsed, nil
	}

	manual := recipes.ParseManualRecipe(rawText)
	return parsedRecipe{
		Name:        manual.Name,
		Description: manual.Description,
		Servings:    manual.Servings,
		Ingredients: manual.Ingredients,
		Method:      manual.Method,
	}, nil
}
