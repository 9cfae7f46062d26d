package service

import (
	"context"
	"errors"
	"fmt"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
)

type GrupoService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarGrupoRequest) (*dto.GrupoResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID) ([]dto.GrupoResponse, error)
	Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarGrupoRequest) (*dto.GrupoResponse, error)
	Desativar(ctx context.Context, empresaID, id uuid.UUID) error

	CriarSubgrupo(ctx context.Context, empresaID, grupoID uuid.UUID, req dto.CriarSubgrupoRequest) (*dto.SubgrupoResponse, error)
	DesativarSubgrupo(ctx context.Context, empresaID, grupoID, id uuid.UUID) error
}

type grupoService struct {
	repo repository.GrupoRepository
}

func NewGrupoService(repo repository.GrupoRepository) GrupoService {
	return &grupoService{repo: repo}
}

func (s *grupoService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarGrupoRequest) (*dto.GrupoResponse, error) {
	if existente, err := s.repo.FindByNome(ctx, empresaID, req.Nome); err == nil && existente != nil {
		return nil, fmt.Errorf("já existe grupo com o nome %q", req.Nome)
	}
	g := &model.Grupo{EmpresaID: empresaID, Nome: req.Nome, Descricao: req.Descricao, Ativo: true}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return grupoParaResponse(g, nil), nil
}

func (s *grupoService) Listar(ctx context.Context, empresaID uuid.UUID) ([]dto.GrupoResponse, error) {
	grupos, err := s.repo.List(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GrupoResponse, 0, len(grupos))
	for i := range grupos {
		subs, err := s.repo.ListSubgrupos(ctx, grupos[i].ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, *grupoParaResponse(&grupos[i], subs))
	}
	return resp, nil
}

func (s *grupoService) Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarGrupoRequest) (*dto.GrupoResponse, error) {
	g, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("grupo não encontrado")
	}
	if req.Nome != nil {
		g.Nome = *req.Nome
	}
	if req.Descricao != nil {
		g.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		g.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return grupoParaResponse(g, nil), nil
}

func (s *grupoService) Desativar(ctx context.Context, empresaID, id uuid.UUID) error {
	return s.repo.Desativar(ctx, empresaID, id)
}

func (s *grupoService) CriarSubgrupo(ctx context.Context, empresaID, grupoID uuid.UUID, req dto.CriarSubgrupoRequest) (*dto.SubgrupoResponse, error) {
	if _, err := s.repo.FindByID(ctx, empresaID, grupoID); err != nil {
		return nil, errors.New("grupo não encontrado")
	}
	sub := &model.Subgrupo{GrupoID: grupoID, Nome: req.Nome, Ativo: true}
	if err := s.repo.CreateSubgrupo(ctx, sub); err != nil {
		return nil, err
	}
	return &dto.SubgrupoResponse{ID: sub.ID, Nome: sub.Nome}, nil
}

func (s *grupoService) DesativarSubgrupo(ctx context.Context, empresaID, grupoID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, empresaID, grupoID); err != nil {
		return errors.New("grupo não encontrado")
	}
	sub, err := s.repo.FindSubgrupoByID(ctx, id)
	if err != nil || sub.GrupoID != grupoID {
		return errors.New("subgrupo não encontrado")
	}
	return s.repo.DesativarSubgrupo(ctx, id)
}

func grupoParaResponse(g *model.Grupo, subs []model.Subgrupo) *dto.GrupoResponse {
	resp := &dto.GrupoResponse{ID: g.ID, Nome: g.Nome, Descricao: g.Descricao, Ativo: g.Ativo}
	for _, sub := range subs {
		resp.Subgrupos = append(resp.Subgrupos, dto.SubgrupoResponse{ID: sub.ID, Nome: sub.Nome})
	}
	return resp
}
