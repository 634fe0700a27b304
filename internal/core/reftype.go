package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RefType is the upstream wallet-journal transaction-type code. The set is
// closed: codes are assigned by the ledger source and new codes must be added
// here explicitly before a classification rule can reference them.
type RefType int32

const (
	RefPlayerTrading                             RefType = 1
	RefMarketTransaction                         RefType = 2
	RefGmCashTransfer                            RefType = 3
	RefMissionReward                             RefType = 7
	RefCloneActivation                           RefType = 8
	RefInheritance                               RefType = 9
	RefPlayerDonation                            RefType = 10
	RefCorporationPayment                        RefType = 11
	RefDockingFee                                RefType = 12
	RefOfficeRentalFee                           RefType = 13
	RefFactorySlotRentalFee                      RefType = 14
	RefRepairBill                                RefType = 15
	RefBounty                                    RefType = 16
	RefBountyPrize                               RefType = 17
	RefInsurance                                 RefType = 19
	RefMissionExpiration                         RefType = 20
	RefMissionCompletion                         RefType = 21
	RefShares                                    RefType = 22
	RefCourierMissionEscrow                      RefType = 23
	RefMissionCost                               RefType = 24
	RefAgentMiscellaneous                        RefType = 25
	RefLpStore                                   RefType = 26
	RefAgentLocationServices                     RefType = 27
	RefAgentDonation                             RefType = 28
	RefAgentSecurityServices                     RefType = 29
	RefAgentMissionCollateralPaid                RefType = 30
	RefAgentMissionCollateralRefunded            RefType = 31
	RefAgentsPreward                             RefType = 32
	RefAgentMissionReward                        RefType = 33
	RefAgentMissionTimeBonusReward               RefType = 34
	RefCspa                                      RefType = 35
	RefCspaofflinerefund                         RefType = 36
	RefCorporationAccountWithdrawal              RefType = 37
	RefCorporationDividendPayment                RefType = 38
	RefCorporationRegistrationFee                RefType = 39
	RefCorporationLogoChangeCost                 RefType = 40
	RefReleaseOfImpoundedProperty                RefType = 41
	RefMarketEscrow                              RefType = 42
	RefAgentServicesRendered                     RefType = 43
	RefMarketFinePaid                            RefType = 44
	RefCorporationLiquidation                    RefType = 45
	RefBrokersFee                                RefType = 46
	RefCorporationBulkPayment                    RefType = 47
	RefAllianceRegistrationFee                   RefType = 48
	RefWarFee                                    RefType = 49
	RefAllianceMaintainanceFee                   RefType = 50
	RefContrabandFine                            RefType = 51
	RefCloneTransfer                             RefType = 52
	RefAccelerationGateFee                       RefType = 53
	RefTransactionTax                            RefType = 54
	RefJumpCloneInstallationFee                  RefType = 55
	RefManufacturing                             RefType = 56
	RefResearchingTechnology                     RefType = 57
	RefResearchingTimeProductivity               RefType = 58
	RefResearchingMaterialProductivity           RefType = 59
	RefCopying                                   RefType = 60
	RefReverseEngineering                        RefType = 62
	RefContractAuctionBid                        RefType = 63
	RefContractAuctionBidRefund                  RefType = 64
	RefContractCollateral                        RefType = 65
	RefContractRewardRefund                      RefType = 66
	RefContractAuctionSold                       RefType = 67
	RefContractReward                            RefType = 68
	RefContractCollateralRefund                  RefType = 69
	RefContractCollateralPayout                  RefType = 70
	RefContractPrice                             RefType = 71
	RefContractBrokersFee                        RefType = 72
	RefContractSalesTax                          RefType = 73
	RefContractDeposit                           RefType = 74
	RefContractDepositSalesTax                   RefType = 75
	RefContractAuctionBidCorp                    RefType = 77
	RefContractCollateralDepositedCorp           RefType = 78
	RefContractPricePaymentCorp                  RefType = 79
	RefContractBrokersFeeCorp                    RefType = 80
	RefContractDepositCorp                       RefType = 81
	RefContractDepositRefund                     RefType = 82
	RefContractRewardDeposited                   RefType = 83
	RefContractRewardDepositedCorp               RefType = 84
	RefBountyPrizes                              RefType = 85
	RefAdvertisementListingFee                   RefType = 86
	RefMedalCreation                             RefType = 87
	RefMedalIssued                               RefType = 88
	RefDnaModificationFee                        RefType = 90
	RefSovereignityBill                          RefType = 91
	RefBountyPrizeCorporationTax                 RefType = 92
	RefAgentMissionRewardCorporationTax          RefType = 93
	RefAgentMissionTimeBonusRewardCorporationTax RefType = 94
	RefUpkeepAdjustmentFee                       RefType = 95
	RefPlanetaryImportTax                        RefType = 96
	RefPlanetaryExportTax                        RefType = 97
	RefPlanetaryConstruction                     RefType = 98
	RefCorporateRewardPayout                     RefType = 99
	RefBountySurcharge                           RefType = 101
	RefContractReversal                          RefType = 102
	RefCorporateRewardTax                        RefType = 103
	RefStorePurchase                             RefType = 106
	RefStorePurchaseRefund                       RefType = 107
	RefDatacoreFee                               RefType = 112
	RefWarFeeSurrender                           RefType = 113
	RefWarAllyContract                           RefType = 114
	RefBountyReimbursement                       RefType = 115
	RefKillRightFee                              RefType = 116
	RefSecurityProcessingFee                     RefType = 117
	RefIndustryJobTax                            RefType = 120
	RefInfrastructureHubMaintenance              RefType = 122
	RefAssetSafetyRecoveryTax                    RefType = 123
	RefOpportunityReward                         RefType = 124
	RefProjectDiscoveryReward                    RefType = 125
	RefProjectDiscoveryTax                       RefType = 126
	RefReprocessingTax                           RefType = 127
	RefJumpCloneActivationFee                    RefType = 128
	RefOperationBonus                            RefType = 129
	RefResourceWarsReward                        RefType = 131
	RefDuelWagerEscrow                           RefType = 132
	RefDuelWagerPayment                          RefType = 133
	RefDuelWagerRefund                           RefType = 134
	RefReaction                                  RefType = 135
	RefExternalTradeFreeze                       RefType = 136
	RefExternalTradeThaw                         RefType = 137
	RefExternalTradeDelivery                     RefType = 138
	RefSeasonChallengeReward                     RefType = 139
	RefSkillPurchase                             RefType = 141
	RefItemTraderPayment                         RefType = 142
	RefFluxTicketSale                            RefType = 143
	RefFluxPayout                                RefType = 144
	RefFluxTax                                   RefType = 145
	RefFluxTicketRepayment                       RefType = 146
	RefRedeemedIskToken                          RefType = 147
	RefDailyChallengeReward                      RefType = 148
	RefMarketProviderTax                         RefType = 149
	RefEssEscrowTransfer                         RefType = 155
	RefMilestoneRewardPayment                    RefType = 156
	RefUnderConstruction                         RefType = 166
	RefAllignmentBasedGateToll                   RefType = 168
	RefProjectPayouts                            RefType = 170
	RefInsurgencyCorruptionContributionReward    RefType = 172
	RefInsurgencySuppressionContributionReward   RefType = 173
	RefDailyGoalPayouts                          RefType = 174
	RefDailyGoalPayoutsTax                       RefType = 175
	RefCosmeticMarketComponentItemPurchase       RefType = 178
	RefCosmeticMarketSkinSaleBrokerFee           RefType = 179
	RefCosmeticMarketSkinPurchase                RefType = 180
	RefCosmeticMarketSkinSale                    RefType = 181
	RefCosmeticMarketSkinSaleTax                 RefType = 182
	RefCosmeticMarketSkinTransaction             RefType = 183
	RefSkyhookClaimFee                           RefType = 184
	RefAirCareerProgramReward                    RefType = 185
	RefFreelanceJobsDurationFee                  RefType = 186
	RefFreelanceJobsBroadcastingFee              RefType = 187
	RefFreelanceJobsRewardEscrow                 RefType = 188
	RefFreelanceJobsReward                       RefType = 189
	RefFreelanceJobsEscrowRefund                 RefType = 190
	RefFreelanceJobsRewardCorporationTax         RefType = 191
	RefGmPlexFeeRefund                           RefType = 192
)

// refTypeNames maps codes to the snake_case identifiers used on the wire.
var refTypeNames = map[RefType]string{
	RefPlayerTrading:                             "player_trading",
	RefMarketTransaction:                         "market_transaction",
	RefGmCashTransfer:                            "gm_cash_transfer",
	RefMissionReward:                             "mission_reward",
	RefCloneActivation:                           "clone_activation",
	RefInheritance:                               "inheritance",
	RefPlayerDonation:                            "player_donation",
	RefCorporationPayment:                        "corporation_payment",
	RefDockingFee:                                "docking_fee",
	RefOfficeRentalFee:                           "office_rental_fee",
	RefFactorySlotRentalFee:                      "factory_slot_rental_fee",
	RefRepairBill:                                "repair_bill",
	RefBounty:                                    "bounty",
	RefBountyPrize:                               "bounty_prize",
	RefInsurance:                                 "insurance",
	RefMissionExpiration:                         "mission_expiration",
	RefMissionCompletion:                         "mission_completion",
	RefShares:                                    "shares",
	RefCourierMissionEscrow:                      "courier_mission_escrow",
	RefMissionCost:                               "mission_cost",
	RefAgentMiscellaneous:                        "agent_miscellaneous",
	RefLpStore:                                   "lp_store",
	RefAgentLocationServices:                     "agent_location_services",
	RefAgentDonation:                             "agent_donation",
	RefAgentSecurityServices:                     "agent_security_services",
	RefAgentMissionCollateralPaid:                "agent_mission_collateral_paid",
	RefAgentMissionCollateralRefunded:            "agent_mission_collateral_refunded",
	RefAgentsPreward:                             "agents_preward",
	RefAgentMissionReward:                        "agent_mission_reward",
	RefAgentMissionTimeBonusReward:               "agent_mission_time_bonus_reward",
	RefCspa:                                      "cspa",
	RefCspaofflinerefund:                         "cspaofflinerefund",
	RefCorporationAccountWithdrawal:              "corporation_account_withdrawal",
	RefCorporationDividendPayment:                "corporation_dividend_payment",
	RefCorporationRegistrationFee:                "corporation_registration_fee",
	RefCorporationLogoChangeCost:                 "corporation_logo_change_cost",
	RefReleaseOfImpoundedProperty:                "release_of_impounded_property",
	RefMarketEscrow:                              "market_escrow",
	RefAgentServicesRendered:                     "agent_services_rendered",
	RefMarketFinePaid:                            "market_fine_paid",
	RefCorporationLiquidation:                    "corporation_liquidation",
	RefBrokersFee:                                "brokers_fee",
	RefCorporationBulkPayment:                    "corporation_bulk_payment",
	RefAllianceRegistrationFee:                   "alliance_registration_fee",
	RefWarFee:                                    "war_fee",
	RefAllianceMaintainanceFee:                   "alliance_maintainance_fee",
	RefContrabandFine:                            "contraband_fine",
	RefCloneTransfer:                             "clone_transfer",
	RefAccelerationGateFee:                       "acceleration_gate_fee",
	RefTransactionTax:                            "transaction_tax",
	RefJumpCloneInstallationFee:                  "jump_clone_installation_fee",
	RefManufacturing:                             "manufacturing",
	RefResearchingTechnology:                     "researching_technology",
	RefResearchingTimeProductivity:               "researching_time_productivity",
	RefResearchingMaterialProductivity:           "researching_material_productivity",
	RefCopying:                                   "copying",
	RefReverseEngineering:                        "reverse_engineering",
	RefContractAuctionBid:                        "contract_auction_bid",
	RefContractAuctionBidRefund:                  "contract_auction_bid_refund",
	RefContractCollateral:                        "contract_collateral",
	RefContractRewardRefund:                      "contract_reward_refund",
	RefContractAuctionSold:                       "contract_auction_sold",
	RefContractReward:                            "contract_reward",
	RefContractCollateralRefund:                  "contract_collateral_refund",
	RefContractCollateralPayout:                  "contract_collateral_payout",
	RefContractPrice:                             "contract_price",
	RefContractBrokersFee:                        "contract_brokers_fee",
	RefContractSalesTax:                          "contract_sales_tax",
	RefContractDeposit:                           "contract_deposit",
	RefContractDepositSalesTax:                   "contract_deposit_sales_tax",
	RefContractAuctionBidCorp:                    "contract_auction_bid_corp",
	RefContractCollateralDepositedCorp:           "contract_collateral_deposited_corp",
	RefContractPricePaymentCorp:                  "contract_price_payment_corp",
	RefContractBrokersFeeCorp:                    "contract_brokers_fee_corp",
	RefContractDepositCorp:                       "contract_deposit_corp",
	RefContractDepositRefund:                     "contract_deposit_refund",
	RefContractRewardDeposited:                   "contract_reward_deposited",
	RefContractRewardDepositedCorp:               "contract_reward_deposited_corp",
	RefBountyPrizes:                              "bounty_prizes",
	RefAdvertisementListingFee:                   "advertisement_listing_fee",
	RefMedalCreation:                             "medal_creation",
	RefMedalIssued:                               "medal_issued",
	RefDnaModificationFee:                        "dna_modification_fee",
	RefSovereignityBill:                          "sovereignity_bill",
	RefBountyPrizeCorporationTax:                 "bounty_prize_corporation_tax",
	RefAgentMissionRewardCorporationTax:          "agent_mission_reward_corporation_tax",
	RefAgentMissionTimeBonusRewardCorporationTax: "agent_mission_time_bonus_reward_corporation_tax",
	RefUpkeepAdjustmentFee:                       "upkeep_adjustment_fee",
	RefPlanetaryImportTax:                        "planetary_import_tax",
	RefPlanetaryExportTax:                        "planetary_export_tax",
	RefPlanetaryConstruction:                     "planetary_construction",
	RefCorporateRewardPayout:                     "corporate_reward_payout",
	RefBountySurcharge:                           "bounty_surcharge",
	RefContractReversal:                          "contract_reversal",
	RefCorporateRewardTax:                        "corporate_reward_tax",
	RefStorePurchase:                             "store_purchase",
	RefStorePurchaseRefund:                       "store_purchase_refund",
	RefDatacoreFee:                               "datacore_fee",
	RefWarFeeSurrender:                           "war_fee_surrender",
	RefWarAllyContract:                           "war_ally_contract",
	RefBountyReimbursement:                       "bounty_reimbursement",
	RefKillRightFee:                              "kill_right_fee",
	RefSecurityProcessingFee:                     "security_processing_fee",
	RefIndustryJobTax:                            "industry_job_tax",
	RefInfrastructureHubMaintenance:              "infrastructure_hub_maintenance",
	RefAssetSafetyRecoveryTax:                    "asset_safety_recovery_tax",
	RefOpportunityReward:                         "opportunity_reward",
	RefProjectDiscoveryReward:                    "project_discovery_reward",
	RefProjectDiscoveryTax:                       "project_discovery_tax",
	RefReprocessingTax:                           "reprocessing_tax",
	RefJumpCloneActivationFee:                    "jump_clone_activation_fee",
	RefOperationBonus:                            "operation_bonus",
	RefResourceWarsReward:                        "resource_wars_reward",
	RefDuelWagerEscrow:                           "duel_wager_escrow",
	RefDuelWagerPayment:                          "duel_wager_payment",
	RefDuelWagerRefund:                           "duel_wager_refund",
	RefReaction:                                  "reaction",
	RefExternalTradeFreeze:                       "external_trade_freeze",
	RefExternalTradeThaw:                         "external_trade_thaw",
	RefExternalTradeDelivery:                     "external_trade_delivery",
	RefSeasonChallengeReward:                     "season_challenge_reward",
	RefSkillPurchase:                             "skill_purchase",
	RefItemTraderPayment:                         "item_trader_payment",
	RefFluxTicketSale:                            "flux_ticket_sale",
	RefFluxPayout:                                "flux_payout",
	RefFluxTax:                                   "flux_tax",
	RefFluxTicketRepayment:                       "flux_ticket_repayment",
	RefRedeemedIskToken:                          "redeemed_isk_token",
	RefDailyChallengeReward:                      "daily_challenge_reward",
	RefMarketProviderTax:                         "market_provider_tax",
	RefEssEscrowTransfer:                         "ess_escrow_transfer",
	RefMilestoneRewardPayment:                    "milestone_reward_payment",
	RefUnderConstruction:                         "under_construction",
	RefAllignmentBasedGateToll:                   "allignment_based_gate_toll",
	RefProjectPayouts:                            "project_payouts",
	RefInsurgencyCorruptionContributionReward:    "insurgency_corruption_contribution_reward",
	RefInsurgencySuppressionContributionReward:   "insurgency_suppression_contribution_reward",
	RefDailyGoalPayouts:                          "daily_goal_payouts",
	RefDailyGoalPayoutsTax:                       "daily_goal_payouts_tax",
	RefCosmeticMarketComponentItemPurchase:       "cosmetic_market_component_item_purchase",
	RefCosmeticMarketSkinSaleBrokerFee:           "cosmetic_market_skin_sale_broker_fee",
	RefCosmeticMarketSkinPurchase:                "cosmetic_market_skin_purchase",
	RefCosmeticMarketSkinSale:                    "cosmetic_market_skin_sale",
	RefCosmeticMarketSkinSaleTax:                 "cosmetic_market_skin_sale_tax",
	RefCosmeticMarketSkinTransaction:             "cosmetic_market_skin_transaction",
	RefSkyhookClaimFee:                           "skyhook_claim_fee",
	RefAirCareerProgramReward:                    "air_career_program_reward",
	RefFreelanceJobsDurationFee:                  "freelance_jobs_duration_fee",
	RefFreelanceJobsBroadcastingFee:              "freelance_jobs_broadcasting_fee",
	RefFreelanceJobsRewardEscrow:                 "freelance_jobs_reward_escrow",
	RefFreelanceJobsReward:                       "freelance_jobs_reward",
	RefFreelanceJobsEscrowRefund:                 "freelance_jobs_escrow_refund",
	RefFreelanceJobsRewardCorporationTax:         "freelance_jobs_reward_corporation_tax",
	RefGmPlexFeeRefund:                           "gm_plex_fee_refund",
}

var refTypeCodes = func() map[string]RefType {
	m := make(map[string]RefType, len(refTypeNames))
	for code, name := range refTypeNames {
		m[name] = code
	}
	return m
}()

// String returns the wire identifier, or a numeric form for codes this
// build does not know about.
func (r RefType) String() string {
	if name, ok := refTypeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ref_type(%d)", int32(r))
}

// Known reports whether the code is part of the closed set.
func (r RefType) Known() bool {
	_, ok := refTypeNames[r]
	return ok
}

// ParseRefType resolves a wire identifier to its code.
func ParseRefType(s string) (RefType, error) {
	if code, ok := refTypeCodes[strings.TrimSpace(s)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown ref type %q", s)
}

// MarshalJSON writes the snake_case wire form.
func (r RefType) MarshalJSON() ([]byte, error) {
	name, ok := refTypeNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown ref type code %d", int32(r))
	}
	return json.Marshal(name)
}

// UnmarshalJSON reads the snake_case wire form.
func (r *RefType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	code, err := ParseRefType(s)
	if err != nil {
		return err
	}
	*r = code
	return nil
}

// refTypeLabels carries report display names for the types the tax report
// calls out; everything else renders its wire identifier.
var refTypeLabels = map[RefType]string{
	RefPlayerDonation:               "Player Donation",
	RefOfficeRentalFee:              "Office Rental Fee",
	RefAgentMissionReward:           "Agent Mission Reward",
	RefAgentMissionTimeBonusReward:  "Agent Mission Time Bonus Reward",
	RefCorporationAccountWithdrawal: "Corporation Account Withdrawal",
	RefCorporationDividendPayment:   "Corporation Dividend Payment",
	RefBountyPrizes:                 "Bounty Prizes",
	RefProjectDiscoveryReward:       "Project Discovery Reward",
	RefEssEscrowTransfer:            "ESS Escrow Transfer",
	RefDailyGoalPayouts:             "Daily Goal Payouts",
}

// Label returns the human-readable report name for the code.
func (r RefType) Label() string {
	if label, ok := refTypeLabels[r]; ok {
		return label
	}
	return r.String()
}

// ContextIDType qualifies the optional context id carried by a journal entry.
type ContextIDType int32

const (
	ContextStructureID         ContextIDType = 1
	ContextStationID           ContextIDType = 2
	ContextMarketTransactionID ContextIDType = 3
	ContextCharacterID         ContextIDType = 4
	ContextCorporationID       ContextIDType = 5
	ContextAllianceID          ContextIDType = 6
	ContextEveSystem           ContextIDType = 7
	ContextIndustryJobID       ContextIDType = 8
	ContextContractID          ContextIDType = 9
	ContextPlanetID            ContextIDType = 10
	ContextSystemID            ContextIDType = 11
	ContextTypeID              ContextIDType = 12
)

var contextIDTypeNames = map[ContextIDType]string{
	ContextStructureID:         "structure_id",
	ContextStationID:           "station_id",
	ContextMarketTransactionID: "market_transaction_id",
	ContextCharacterID:         "character_id",
	ContextCorporationID:       "corporation_id",
	ContextAllianceID:          "alliance_id",
	ContextEveSystem:           "eve_system",
	ContextIndustryJobID:       "industry_job_id",
	ContextContractID:          "contract_id",
	ContextPlanetID:            "planet_id",
	ContextSystemID:            "system_id",
	ContextTypeID:              "type_id",
}

func (c ContextIDType) String() string {
	if name, ok := contextIDTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("context_id_type(%d)", int32(c))
}

// UnmarshalJSON reads the snake_case wire form.
func (c *ContextIDType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for code, name := range contextIDTypeNames {
		if name == s {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown context id type %q", s)
}
