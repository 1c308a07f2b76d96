/*
Package promotion 促销应用服务

负责把请求转换为领域对象、调用校验器和计算器，并通过 UnitOfWork 持久化。
生命周期变更产生的事件由 UnitOfWork 在提交前写入 outbox。
*/
package promotion

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"ecommerce/domain/catalog"
	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

// ApplicationService 促销应用服务
type ApplicationService struct {
	repo       promotion.Repository
	products   catalog.Catalog
	validator  *promotion.Validator
	uowFactory shared.UnitOfWorkFactory
}

func NewApplicationService(
	repo promotion.Repository,
	products catalog.Catalog,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		repo:       repo,
		products:   products,
		validator:  promotion.NewValidator(products),
		uowFactory: uowFactory,
	}
}

// WithValidator 替换校验器，测试里用来固定时钟
func (s *ApplicationService) WithValidator(v *promotion.Validator) *ApplicationService {
	s.validator = v
	return s
}

// Create 按类型创建草稿状态的促销，校验失败不会写入任何数据
func (s *ApplicationService) Create(ctx context.Context, req CreatePromotionRequest) (*PromotionResponse, error) {
	t, err := promotion.ParseType(strings.ReplaceAll(req.Type, "-", "_"))
	if err != nil {
		return nil, err
	}
	variant, err := toVariant(t, req)
	if err != nil {
		return nil, err
	}

	params := promotion.NewParams{
		Name:                 req.Name,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableCategories: req.ApplicableCategories,
		Variant:              variant,
	}

	// 聚合在工作单元内创建，重试时得到新的聚合和事件
	var p *promotion.Promotion
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		created, err := promotion.NewPromotion(params)
		if err != nil {
			return err
		}
		if err := s.validator.Validate(ctx, created); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		p = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// List 按类型过滤，类型为空时返回全部
func (s *ApplicationService) List(ctx context.Context, rawType string) ([]*PromotionResponse, error) {
	var t promotion.Type
	if rawType != "" {
		parsed, err := promotion.ParseType(strings.ReplaceAll(rawType, "-", "_"))
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	promotions, err := s.repo.FindBySpecification(ctx, promotion.NewListSpecification(t))
	if err != nil {
		return nil, err
	}

	responses := make([]*PromotionResponse, len(promotions))
	for i, p := range promotions {
		responses[i] = toPromotionResponse(p)
	}
	return responses, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*PromotionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// Activate draft -> active
func (s *ApplicationService) Activate(ctx context.Context, id string) (*PromotionResponse, error) {
	return s.transition(ctx, id, (*promotion.Promotion).Activate)
}

// Deactivate active -> inactive
func (s *ApplicationService) Deactivate(ctx context.Context, id string) (*PromotionResponse, error) {
	return s.transition(ctx, id, (*promotion.Promotion).Deactivate)
}

func (s *ApplicationService) transition(ctx context.Context, id string, apply func(*promotion.Promotion) error) (*PromotionResponse, error) {
	var p *promotion.Promotion

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(p); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// Delete 物理删除
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.MarkDeleted()
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		uow.RegisterRemoved(p)
		return nil
	})
}

// CalculateDiscount 试算，不改变促销状态
// 满赠促销的折扣为 0，赠品单独返回
func (s *ApplicationService) CalculateDiscount(ctx context.Context, id string, req CalculateDiscountRequest) (*DiscountResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := toLineItems(req.Items)
	if p.RestrictsCategories() {
		if err := s.fillCategories(ctx, items); err != nil {
			return nil, err
		}
	}

	discount, err := promotion.Calculate(p, req.OrderAmount, items)
	if err != nil {
		return nil, err
	}

	gifts := make([]GiftResponse, 0)
	applies := len(items) == 0 || p.AppliesTo(items)
	if fg, ok := p.Variant().(*promotion.FullGift); ok && applies {
		for _, g := range fg.Gifts(req.OrderAmount) {
			gifts = append(gifts, GiftResponse{ProductID: g.ProductID, Quantity: g.Quantity})
		}
	}

	return &DiscountResponse{
		PromotionID: p.ID(),
		OrderAmount: fixed(req.OrderAmount),
		Discount:    fixed(discount),
		FinalAmount: fixed(decimal.Max(req.OrderAmount.Sub(discount), decimal.Zero)),
		Gifts:       gifts,
	}, nil
}

// fillCategories 按目录补全订单项类目，目录中不存在的商品只按商品 ID 匹配
func (s *ApplicationService) fillCategories(ctx context.Context, items []promotion.LineItem) error {
	for i := range items {
		product, err := s.products.FindProduct(ctx, items[i].ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		items[i].Category = product.Category
	}
	return nil
}
