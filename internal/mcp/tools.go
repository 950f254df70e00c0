// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents list, add, rename, delete, reorder, and organize board entries

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/smilemeback/smileback/internal/models"
	"github.com/smilemeback/smileback/internal/storage"
)

func (s *Server) registerTools() {
	s.registerListCategoriesTool()
	s.registerListImagesTool()
	s.registerAddCategoryTool()
	s.registerAddImageTool()
	s.registerRenameCategoryTool()
	s.registerRenameImageTool()
	s.registerDeleteCategoriesTool()
	s.registerDeleteImagesTool()
	s.registerRearrangeCategoriesTool()
	s.registerRearrangeImagesTool()
	s.registerOrganizeTool()
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

var positionProp = map[string]interface{}{
	"type":        "integer",
	"description": "Zero-based position of the category",
	"minimum":     0,
}

var positionsProp = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "integer", "minimum": 0},
	"description": "Zero-based positions of the selected entries",
}

// CategoryOutput describes one category.
type CategoryOutput struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Images   int    `json:"images"`
}

// ImageOutput describes one image pair.
type ImageOutput struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Audio    string `json:"audio"`
}

func categoryOutput(cat *storage.Category) CategoryOutput {
	out := CategoryOutput{Position: cat.Position(), Name: cat.Name().String(), Images: -1}
	if imgs, err := cat.Images(); err == nil {
		out.Images = imgs.Size()
	}
	return out
}

func imageOutput(img *storage.Image) ImageOutput {
	return ImageOutput{
		Position: img.Position(),
		Name:     img.Name().String(),
		Picture:  img.PicturePath(),
		Audio:    img.AudioPath(),
	}
}

// ListCategoriesInput is empty but required for type.
type ListCategoriesInput struct{}

// ListCategoriesOutput defines output for list_categories.
type ListCategoriesOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Count      int              `json:"count"`
}

func (s *Server) registerListCategoriesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_categories",
		Description: "List every category in board order with its image count. An image count of -1 means the category needs organizing.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListCategories)
}

func (s *Server) handleListCategories(_ context.Context, _ *mcp.CallToolRequest, _ ListCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.listCategories()
	return jsonResult(output), output, nil
}

func (s *Server) listCategories() ListCategoriesOutput {
	cats := s.board.List()
	out := ListCategoriesOutput{Categories: make([]CategoryOutput, len(cats)), Count: len(cats)}
	for i, cat := range cats {
		out.Categories[i] = categoryOutput(cat)
	}
	return out
}

// CategoryInput selects one category.
type CategoryInput struct {
	Category int `json:"category"`
}

// ListImagesOutput defines output for list_images.
type ListImagesOutput struct {
	Category string        `json:"category"`
	Images   []ImageOutput `json:"images"`
	Count    int           `json:"count"`
}

func (s *Server) registerListImagesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_images",
		Description: "List the images of one category in order.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": positionProp,
			},
			"required": []string{"category"},
		},
	}, s.handleListImages)
}

func (s *Server) handleListImages(_ context.Context, _ *mcp.CallToolRequest, input CategoryInput) (*mcp.CallToolResult, ListImagesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, imgs, err := s.images(input.Category)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	output := imagesOutput(cat, imgs)
	return jsonResult(output), output, nil
}

func imagesOutput(cat *storage.Category, imgs *storage.Images) ListImagesOutput {
	list := imgs.List()
	out := ListImagesOutput{Category: cat.Name().String(), Images: make([]ImageOutput, len(list)), Count: len(list)}
	for i, img := range list {
		out.Images[i] = imageOutput(img)
	}
	return out
}

// AddCategoryInput defines input for add_category.
type AddCategoryInput struct {
	Name          string `json:"name"`
	ThumbnailPath string `json:"thumbnail_path"`
}

func (s *Server) registerAddCategoryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_category",
		Description: "Add a category at the end of the board. The thumbnail is copied from a local JPEG file.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Category label (no / \\ . _ : * ? \" < > |)",
				},
				"thumbnail_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the thumbnail image on the local filesystem",
				},
			},
			"required": []string{"name", "thumbnail_path"},
		},
	}, s.handleAddCategory)
}

func (s *Server) handleAddCategory(_ context.Context, _ *mcp.CallToolRequest, input AddCategoryInput) (*mcp.CallToolResult, CategoryOutput, error) {
	name, err := models.NewName(input.Name)
	if err != nil {
		return nil, CategoryOutput{}, err
	}
	thumb, err := os.Open(input.ThumbnailPath)
	if err != nil {
		return nil, CategoryOutput{}, fmt.Errorf("open thumbnail: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.board.Add(name, thumb)
	if err != nil {
		return nil, CategoryOutput{}, fmt.Errorf("failed to add category: %w", err)
	}
	output := categoryOutput(cat)
	return jsonResult(output), output, nil
}

// AddImageInput defines input for add_image.
type AddImageInput struct {
	Category    int    `json:"category"`
	Name        string `json:"name"`
	PicturePath string `json:"picture_path"`
	AudioPath   string `json:"audio_path"`
}

func (s *Server) registerAddImageTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_image",
		Description: "Add a picture with its audio clip at the end of a category.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": positionProp,
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Image label",
				},
				"picture_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the JPEG picture on the local filesystem",
				},
				"audio_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the 3GPP audio clip on the local filesystem",
				},
			},
			"required": []string{"category", "name", "picture_path", "audio_path"},
		},
	}, s.handleAddImage)
}

func (s *Server) handleAddImage(_ context.Context, _ *mcp.CallToolRequest, input AddImageInput) (*mcp.CallToolResult, ImageOutput, error) {
	name, err := models.NewName(input.Name)
	if err != nil {
		return nil, ImageOutput{}, err
	}
	pic, err := os.Open(input.PicturePath)
	if err != nil {
		return nil, ImageOutput{}, fmt.Errorf("open picture: %w", err)
	}
	aud, err := os.Open(input.AudioPath)
	if err != nil {
		_ = pic.Close()
		return nil, ImageOutput{}, fmt.Errorf("open audio: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, imgs, err := s.images(input.Category)
	if err != nil {
		_ = pic.Close()
		_ = aud.Close()
		return nil, ImageOutput{}, err
	}
	img, err := imgs.Add(name, pic, aud)
	if err != nil {
		return nil, ImageOutput{}, fmt.Errorf("failed to add image: %w", err)
	}
	output := imageOutput(img)
	return jsonResult(output), output, nil
}

// RenameCategoryInput defines input for rename_category.
type RenameCategoryInput struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func (s *Server) registerRenameCategoryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rename_category",
		Description: "Rename a category. Its position does not change.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"position": positionProp,
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New label",
				},
			},
			"required": []string{"position", "name"},
		},
	}, s.handleRenameCategory)
}

func (s *Server) handleRenameCategory(_ context.Context, _ *mcp.CallToolRequest, input RenameCategoryInput) (*mcp.CallToolResult, CategoryOutput, error) {
	name, err := models.NewName(input.Name)
	if err != nil {
		return nil, CategoryOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.board.Get(input.Position)
	if err != nil {
		return nil, CategoryOutput{}, err
	}
	renamed, err := s.board.Rename(cat, name)
	if err != nil {
		return nil, CategoryOutput{}, fmt.Errorf("failed to rename category: %w", err)
	}
	output := categoryOutput(renamed)
	return jsonResult(output), output, nil
}

// RenameImageInput defines input for rename_image.
type RenameImageInput struct {
	Category int    `json:"category"`
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func (s *Server) registerRenameImageTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rename_image",
		Description: "Rename an image. Both the picture and the audio file are renamed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": positionProp,
				"position": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based position of the image",
					"minimum":     0,
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New label",
				},
			},
			"required": []string{"category", "position", "name"},
		},
	}, s.handleRenameImage)
}

func (s *Server) handleRenameImage(_ context.Context, _ *mcp.CallToolRequest, input RenameImageInput) (*mcp.CallToolResult, ImageOutput, error) {
	name, err := models.NewName(input.Name)
	if err != nil {
		return nil, ImageOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, imgs, err := s.images(input.Category)
	if err != nil {
		return nil, ImageOutput{}, err
	}
	img, err := imgs.Get(input.Position)
	if err != nil {
		return nil, ImageOutput{}, err
	}
	renamed, err := imgs.Rename(img, name)
	if err != nil {
		return nil, ImageOutput{}, fmt.Errorf("failed to rename image: %w", err)
	}
	output := imageOutput(renamed)
	return jsonResult(output), output, nil
}

// DeleteCategoriesInput defines input for delete_categories.
type DeleteCategoriesInput struct {
	Positions []int `json:"positions"`
}

func (s *Server) registerDeleteCategoriesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_categories",
		Description: "Delete categories with all their images. Remaining categories are renumbered. This cannot be undone.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"positions": positionsProp,
			},
			"required": []string{"positions"},
		},
	}, s.handleDeleteCategories)
}

func (s *Server) handleDeleteCategories(_ context.Context, _ *mcp.CallToolRequest, input DeleteCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selection, err := s.categoriesAt(input.Positions)
	if err != nil {
		return nil, ListCategoriesOutput{}, err
	}
	if err := s.board.Delete(selection); err != nil {
		return nil, ListCategoriesOutput{}, fmt.Errorf("failed to delete categories: %w", err)
	}
	output := s.listCategories()
	return jsonResult(output), output, nil
}

// DeleteImagesInput defines input for delete_images.
type DeleteImagesInput struct {
	Category  int   `json:"category"`
	Positions []int `json:"positions"`
}

func (s *Server) registerDeleteImagesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_images",
		Description: "Delete images from a category. Remaining images are renumbered. This cannot be undone.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category":  positionProp,
				"positions": positionsProp,
			},
			"required": []string{"category", "positions"},
		},
	}, s.handleDeleteImages)
}

func (s *Server) handleDeleteImages(_ context.Context, _ *mcp.CallToolRequest, input DeleteImagesInput) (*mcp.CallToolResult, ListImagesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, imgs, err := s.images(input.Category)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	selection, err := imagesAt(imgs, input.Positions)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	if err := imgs.Delete(selection); err != nil {
		return nil, ListImagesOutput{}, fmt.Errorf("failed to delete images: %w", err)
	}
	output := imagesOutput(cat, imgs)
	return jsonResult(output), output, nil
}

// RearrangeCategoriesInput defines input for rearrange_categories.
type RearrangeCategoriesInput struct {
	Positions []int `json:"positions"`
	Target    int   `json:"target"`
}

func (s *Server) registerRearrangeCategoriesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "rearrange_categories",
		Description: "Move the selected categories next to the target. If the target comes before every selected category " +
			"the selection is placed right before it, otherwise right after it.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"positions": positionsProp,
				"target":    positionProp,
			},
			"required": []string{"positions", "target"},
		},
	}, s.handleRearrangeCategories)
}

func (s *Server) handleRearrangeCategories(_ context.Context, _ *mcp.CallToolRequest, input RearrangeCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selection, err := s.categoriesAt(input.Positions)
	if err != nil {
		return nil, ListCategoriesOutput{}, err
	}
	target, err := s.board.Get(input.Target)
	if err != nil {
		return nil, ListCategoriesOutput{}, err
	}
	if err := s.board.Rearrange(selection, target); err != nil {
		return nil, ListCategoriesOutput{}, fmt.Errorf("failed to rearrange categories: %w", err)
	}
	output := s.listCategories()
	return jsonResult(output), output, nil
}

// RearrangeImagesInput defines input for rearrange_images.
type RearrangeImagesInput struct {
	Category  int   `json:"category"`
	Positions []int `json:"positions"`
	Target    int   `json:"target"`
}

func (s *Server) registerRearrangeImagesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rearrange_images",
		Description: "Move the selected images of a category next to the target image, with the same rule as rearrange_categories.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category":  positionProp,
				"positions": positionsProp,
				"target": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based position of the target image",
					"minimum":     0,
				},
			},
			"required": []string{"category", "positions", "target"},
		},
	}, s.handleRearrangeImages)
}

func (s *Server) handleRearrangeImages(_ context.Context, _ *mcp.CallToolRequest, input RearrangeImagesInput) (*mcp.CallToolResult, ListImagesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, imgs, err := s.images(input.Category)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	selection, err := imagesAt(imgs, input.Positions)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	target, err := imgs.Get(input.Target)
	if err != nil {
		return nil, ListImagesOutput{}, err
	}
	if err := imgs.Rearrange(selection, target); err != nil {
		return nil, ListImagesOutput{}, fmt.Errorf("failed to rearrange images: %w", err)
	}
	output := imagesOutput(cat, imgs)
	return jsonResult(output), output, nil
}

// OrganizeInput is empty but required for type.
type OrganizeInput struct{}

// OrganizeOutput reports the board after repair.
type OrganizeOutput struct {
	Categories int `json:"categories"`
	Images     int `json:"images"`
}

func (s *Server) registerOrganizeTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "organize",
		Description: "Repair the board: delete entries with unreadable names or positions and unmatched picture/audio files, " +
			"then renumber everything contiguously. Deleted entries are lost.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleOrganize)
}

func (s *Server) handleOrganize(_ context.Context, _ *mcp.CallToolRequest, _ OrganizeInput) (*mcp.CallToolResult, OrganizeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.board.Organize(); err != nil {
		return nil, OrganizeOutput{}, fmt.Errorf("failed to organize categories: %w", err)
	}
	output := OrganizeOutput{Categories: s.board.Size()}
	for _, cat := range s.board.List() {
		imgs, err := cat.RecoverImages()
		if err != nil {
			return nil, OrganizeOutput{}, fmt.Errorf("failed to organize %s: %w", cat.Name(), err)
		}
		output.Images += imgs.Size()
	}
	return jsonResult(output), output, nil
}

// images loads the images of the category at position.
func (s *Server) images(position int) (*storage.Category, *storage.Images, error) {
	cat, err := s.board.Get(position)
	if err != nil {
		return nil, nil, err
	}
	imgs, err := cat.Images()
	if err != nil {
		return nil, nil, fmt.Errorf("category %q needs organizing: %w", cat.Name(), err)
	}
	return cat, imgs, nil
}

// normalize sorts positions and drops duplicates.
func normalize(positions []int) []int {
	out := slices.Clone(positions)
	slices.Sort(out)
	return slices.Compact(out)
}

func (s *Server) categoriesAt(positions []int) ([]*storage.Category, error) {
	positions = normalize(positions)
	out := make([]*storage.Category, 0, len(positions))
	for _, p := range positions {
		cat, err := s.board.Get(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

func imagesAt(imgs *storage.Images, positions []int) ([]*storage.Image, error) {
	positions = normalize(positions)
	out := make([]*storage.Image, 0, len(positions))
	for _, p := range positions {
		img, err := imgs.Get(p)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
