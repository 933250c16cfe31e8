package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/taskdesk/taskdesk/app/dto"
	"github.com/taskdesk/taskdesk/app/services"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
)

// DepartmentFlow defines operations for creating and listing departments
type DepartmentFlow interface {
	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, metadata *ClientMetadata) (*dto.CreateDepartmentResponse, error)
	ListDepartments(ctx context.Context, req *dto.ListDepartmentsRequest) (*dto.ListDepartmentsResponse, error)
}

// DepartmentFlowImpl implements DepartmentFlow
type DepartmentFlowImpl struct {
	deptRepo repository.DepartmentRepository
	idGen    services.IDGenerator
}

func NewDepartmentFlow(deptRepo repository.DepartmentRepository, idGen services.IDGenerator) DepartmentFlow {
	return &DepartmentFlowImpl{deptRepo: deptRepo, idGen: idGen}
}

func (f *DepartmentFlowImpl) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, metadata *ClientMetadata) (*dto.CreateDepartmentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}

	existing, err := f.deptRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("DEPARTMENT_LOOKUP_FAILED", "Failed to look up department", err)
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixDepartment)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate department ID", err)
	}

	dept := models.Department{
		ID:          id,
		Name:        name,
		Description: req.Description,
	}

	if err := f.deptRepo.Save(ctx, &dept); err != nil {
		return nil, NewBusinessError("DEPARTMENT_CREATE_FAILED", "Failed to create department", err)
	}

	return &dto.CreateDepartmentResponse{
		Message:    "Department created successfully",
		Department: toDepartmentDTO(dept),
	}, nil
}

func (f *DepartmentFlowImpl) ListDepartments(ctx context.Context, req *dto.ListDepartmentsRequest) (*dto.ListDepartmentsResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	limit, offset, err := validatePagination(page, pageSize)
	if err != nil {
		return nil, err
	}

	filter := models.DepartmentFilter{}
	rows, err := f.deptRepo.ByFilter(ctx, filter, "name ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("DEPARTMENT_LIST_FAILED", "Failed to list departments", err)
	}

	total, err := f.deptRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("DEPARTMENT_COUNT_FAILED", "Failed to count departments", err)
	}

	out := make([]dto.DepartmentDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, toDepartmentDTO(*d))
	}

	return &dto.ListDepartmentsResponse{
		Message:     "Departments retrieved successfully",
		Departments: out,
		Pagination:  dto.PaginationDTO{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

func toDepartmentDTO(d models.Department) dto.DepartmentDTO {
	return dto.DepartmentDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}
