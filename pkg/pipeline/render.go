package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/netblend/netblend/pkg/render/diagram"
	"github.com/netblend/netblend/pkg/render/mesh"
	"github.com/netblend/netblend/pkg/render/preview"
	"github.com/netblend/netblend/pkg/scene"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var m *mesh.Mesh

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = scene.Marshal(s)
		case FormatSTL, FormatMeshJSON:
			if m == nil {
				if m, err = buildMesh(ctx, s, opts); err != nil {
					break
				}
			}
			data, err = encodeMesh(m, format)
		case FormatPNG, FormatSVG:
			data, err = preview.Render(s, preview.Options{
				Projection: preview.Projection(opts.Projection),
				Format:     format,
			})
		case FormatDOT:
			data = []byte(diagram.ToDOT(s.Architecture(), diagramOptions(opts)))
		case FormatDiagramSVG:
			data, err = diagram.Render(ctx, s.Architecture(), diagramOptions(opts))
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildMesh places one sphere per neuron. With more than one worker the
// spheres are tessellated concurrently and assembled in neuron order.
func buildMesh(ctx context.Context, s *scene.Scene, opts Options) (*mesh.Mesh, error) {
	if opts.Workers > 1 {
		return mesh.RenderConcurrent(ctx, s, opts.Workers, mesh.WithCells(opts.MeshCells))
	}
	return mesh.Render(s, mesh.WithCells(opts.MeshCells))
}

func encodeMesh(m *mesh.Mesh, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == FormatSTL {
		err = mesh.WriteSTL(&buf, m)
	} else {
		err = mesh.WriteJSON(&buf, m)
	}
	return buf.Bytes(), err
}

func diagramOptions(opts Options) diagram.Options {
	return diagram.Options{Detailed: opts.Detailed}
}
