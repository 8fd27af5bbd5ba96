// Package stats computes the dashboard aggregates from a report list.
package stats

import (
	"sort"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

type BranchSales struct {
	Branch string `json:"sucursal"`
	Total  int64  `json:"total"`
	Count  int    `json:"cantidad_reportes"`
}

type ServiceRank struct {
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
	Total    int64  `json:"total"`
}

type Summary struct {
	TotalSales        int64         `json:"total_ventas"`
	TotalCommissions  int64         `json:"total_comisiones"`
	TotalNetPay       int64         `json:"total_pagos_netos"`
	ReportCount       int           `json:"cantidad_reportes"`
	ProfessionalCount int           `json:"cantidad_profesionales"`
	SalesByBranch     []BranchSales `json:"ventas_por_sucursal"`
	TopServices       []ServiceRank `json:"top_servicios"`
}

const topServicesLimit = 5

// Compute aggregates a report slice into the dashboard summary. Pure; the
// caller decides which month window the slice covers.
func Compute(reports []entity.SalesReport) Summary {
	sum := Summary{
		SalesByBranch: []BranchSales{},
		TopServices:   []ServiceRank{},
		ReportCount:   len(reports),
	}

	branchIdx := map[string]int{}
	serviceIdx := map[string]int{}
	professionals := map[string]struct{}{}

	for _, rep := range reports {
		sum.TotalSales += rep.GrossSales
		sum.TotalNetPay += rep.NetPay
		sum.TotalCommissions += rep.GrossSales - rep.NetPay
		if rep.ProfessionalID != "" {
			professionals[rep.ProfessionalID] = struct{}{}
		}

		branch := rep.BranchName()
		if branch != "" {
			i, ok := branchIdx[branch]
			if !ok {
				i = len(sum.SalesByBranch)
				branchIdx[branch] = i
				sum.SalesByBranch = append(sum.SalesByBranch, BranchSales{Branch: branch})
			}
			sum.SalesByBranch[i].Total += rep.GrossSales
			sum.SalesByBranch[i].Count++
		}

		for _, line := range rep.Services {
			i, ok := serviceIdx[line.ServiceName]
			if !ok {
				i = len(sum.TopServices)
				serviceIdx[line.ServiceName] = i
				sum.TopServices = append(sum.TopServices, ServiceRank{Name: line.ServiceName})
			}
			sum.TopServices[i].Quantity += line.Quantity
			sum.TopServices[i].Total += line.Subtotal
		}
	}
	sum.ProfessionalCount = len(professionals)

	sort.SliceStable(sum.SalesByBranch, func(i, j int) bool {
		return sum.SalesByBranch[i].Total > sum.SalesByBranch[j].Total
	})
	sort.SliceStable(sum.TopServices, func(i, j int) bool {
		return sum.TopServices[i].Total > sum.TopServices[j].Total
	})
	if len(sum.TopServices) > topServicesLimit {
		sum.TopServices = sum.TopServices[:topServicesLimit]
	}
	return sum
}
